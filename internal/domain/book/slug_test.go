package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Go Programming Language": "the-go-programming-language",
		"  Go -- in Action!  ":        "go-in-action",
		"Café Society":                "cafe-society",
		"C++ Primer, 5th Ed.":         "c-primer-5th-ed",
		"snake_case title":            "snake_case-title",
		"Go语言实战":                      "go",
		"深入理解计算机系统":                   fallbackSlug,
		"---":                         fallbackSlug,
	}

	for title, want := range cases {
		t.Run(title, func(t *testing.T) {
			assert.Equal(t, want, Slugify(title))
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	t.Run("无冲突直接使用", func(t *testing.T) {
		assert.Equal(t, "dune", UniqueSlug("Dune", nil))
	})

	t.Run("冲突追加数字后缀", func(t *testing.T) {
		assert.Equal(t, "dune-1", UniqueSlug("Dune", []string{"dune"}))
	})

	t.Run("跳过已占用的后缀", func(t *testing.T) {
		assert.Equal(t, "dune-3", UniqueSlug("Dune", []string{"dune", "dune-1", "dune-2", "dune-messiah"}))
	})

	t.Run("后缀空洞优先复用", func(t *testing.T) {
		assert.Equal(t, "dune-1", UniqueSlug("Dune", []string{"dune", "dune-2"}))
	})
}
