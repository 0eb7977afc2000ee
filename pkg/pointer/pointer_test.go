// Copyright (c) 2026 Forgeline. All rights reserved.
// Author: dev@forgeline.io

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeline/console/pkg/pointer"
)

func TestTo(t *testing.T) {
	p := pointer.To("factory")
	assert.NotNil(t, p)
	assert.Equal(t, "factory", *p)
}

func TestVal(t *testing.T) {
	assert.Equal(t, 42, pointer.Val(pointer.To(42)))
	assert.Equal(t, 0, pointer.Val[int](nil))
	assert.Equal(t, "", pointer.Val[string](nil))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "set", pointer.Fallback(pointer.To("set"), "default"))
	assert.Equal(t, "default", pointer.Fallback[string](nil, "default"))
}
