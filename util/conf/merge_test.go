package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeDefaults(t *testing.T) {
	merged := MergeDefaults("cors",
		DefaultConfig{"max_age": 10},
		DefaultConfig{"allow_credentials": true},
	)

	assert.Equal(t, DefaultConfig{
		"cors.max_age":           10,
		"cors.allow_credentials": true,
	}, merged)
}
