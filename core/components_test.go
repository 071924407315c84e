package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentForPath(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"service directory", "services/auth_service/login.ts", "auth"},
		{"service without suffix", "services/billing/invoice.go", "billing"},
		{"module directory", "modules/payments/charge.py", "payments"},
		{"nested under src", "src/checkout/cart.ts", "checkout"},
		{"plain directory", "billing/handler.go", "billing"},
		{"boilerplate only", "src/main.ts", ""},
		{"ci config", ".github/workflows/ci.yml", "workflows"},
		{"root file", "README.md", ""},
		{"file directly under services", "services/readme.md", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, componentForPath(tc.path))
		})
	}
}

func TestDeriveComponentsSortedAndDeduplicated(t *testing.T) {
	paths := []string{
		"services/auth_service/login.ts",
		"services/auth_service/logout.ts",
		"modules/payments/charge.py",
		"billing/handler.go",
	}
	assert.Equal(t, []string{"auth", "billing", "payments"}, DeriveComponents(paths))
}

func TestDeriveComponentsCapped(t *testing.T) {
	paths := []string{
		"alpha/a.go", "bravo/b.go", "charlie/c.go",
		"delta/d.go", "echo/e.go", "foxtrot/f.go",
	}
	got := DeriveComponents(paths)
	assert.Len(t, got, maxComponents)
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, got)
}

func TestDeriveComponentsEmpty(t *testing.T) {
	assert.Empty(t, DeriveComponents(nil))
	assert.Empty(t, DeriveComponents([]string{"README.md"}))
}
