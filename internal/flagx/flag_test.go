package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-b", "http://host", "-x", "junk"},
			allowed: []string{"-b"},
			want:    []string{"-b", "http://host"},
		},
		{
			name:    "equals form",
			args:    []string{"--backend=http://host", "--other=1"},
			allowed: []string{"--backend"},
			want:    []string{"--backend=http://host"},
		},
		{
			name:    "flag without value",
			args:    []string{"-v", "-b", "http://host"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1", "-b", "2"},
			allowed: []string{"-z"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"cli", "-c", "conf.json", "-b", "http://host"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"cli", "-b", "http://host"}
	assert.Equal(t, "", JsonConfigFlags())
}
