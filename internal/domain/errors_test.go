package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetailedErrorsMatchSentinels(t *testing.T) {
	err := Newf(CodeRecordLocked, "filing %s is %s", "abc", StatusProcessing)
	assert.True(t, errors.Is(err, ErrRecordLocked))
	assert.False(t, errors.Is(err, ErrAlreadyFiled))
	assert.Equal(t, "filing abc is PROCESSING", err.Error())

	wrapped := fmt.Errorf("saving: %w", err)
	assert.True(t, errors.Is(wrapped, ErrRecordLocked))
	assert.Equal(t, CodeRecordLocked, Code(wrapped))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, CodeInternal, Code(errors.New("disk on fire")))
	assert.Equal(t, CodeVersionConflict, Code(ErrVersionConflict))
}

func TestAllCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range AllCodes() {
		assert.False(t, seen[c], c)
		seen[c] = true
	}
	assert.Len(t, seen, 10)
}
