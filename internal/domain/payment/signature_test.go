package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "order_abc", "pay_xyz")

	assert.True(t, VerifySignature("secret", "order_abc", "pay_xyz", sig))
}

func TestVerifySignature_Tampered(t *testing.T) {
	sig := Sign("secret", "order_abc", "pay_xyz")

	assert.False(t, VerifySignature("secret", "order_abc", "pay_other", sig))
	assert.False(t, VerifySignature("secret", "order_other", "pay_xyz", sig))
	assert.False(t, VerifySignature("other-secret", "order_abc", "pay_xyz", sig))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", sig+"0"))
	assert.False(t, VerifySignature("secret", "order_abc", "pay_xyz", ""))
}

func TestSign_Deterministic(t *testing.T) {
	assert.Equal(t, Sign("s", "o", "p"), Sign("s", "o", "p"))
	assert.NotEqual(t, Sign("s", "o", "p"), Sign("s", "o", "q"))
}
