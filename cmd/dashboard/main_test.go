package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const fixture = "../../data/mock/water_objects.json"

func TestRun_Expert(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-in", fixture, "-user", "expert", "-password", "expert123"}, &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "PRIORITY")
	assert.Contains(t, out.String(), "Озеро Балхаш")
	assert.Contains(t, out.String(), "page 1/1, 8 objects, sorted by priority_score desc")
}

func TestRun_FilteredByCategory(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-in", fixture, "-user", "expert", "-password", "expert123", "-category", "5"}, &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Contains(t, out.String(), "Озеро Алаколь")
	assert.NotContains(t, out.String(), "Озеро Зайсан")
	assert.Contains(t, out.String(), "3 objects")
}

func TestRun_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"missing input", nil, 2, "Usage"},
		{"bad password", []string{"-in", fixture, "-user", "expert", "-password", "nope"}, 1, "invalid credentials"},
		{"bad sort", []string{"-in", fixture, "-user", "expert", "-password", "expert123", "-sort", "depth"}, 2, "dashboard:"},
		{"bad category", []string{"-in", fixture, "-user", "expert", "-password", "expert123", "-category", "x"}, 2, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &out, &errOut))
			assert.True(t, strings.Contains(errOut.String(), tt.msg), errOut.String())
		})
	}
}
