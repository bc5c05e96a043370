package node

import (
	"os"
	"strings"
)

// environmentSnapshot captures the process environment and working directory
// so a build's mutations can be rolled back verbatim, including removal of
// variables the build introduced.
type environmentSnapshot struct {
	vars map[string]string
	wd   string
}

func captureEnvironment() environmentSnapshot {
	wd, _ := os.Getwd()
	return environmentSnapshot{vars: environMap(), wd: wd}
}

func environMap() map[string]string {
	env := os.Environ()
	m := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}

// applyEnvironment overlays vars onto the process environment.
func applyEnvironment(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

// restore puts the process back exactly as captured: values reset, variables
// added since removed, working directory restored.
func (s environmentSnapshot) restore() {
	if s.vars == nil {
		return
	}
	current := environMap()
	for k := range current {
		if _, ok := s.vars[k]; !ok {
			os.Unsetenv(k)
		}
	}
	for k, v := range s.vars {
		if current[k] != v {
			os.Setenv(k, v)
		}
	}
	if s.wd != "" {
		_ = os.Chdir(s.wd)
	}
}
