package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFolderReuse(t *testing.T) {
	f := newFolder()
	in := []string{"Crème", "ÉCOLE", "naïve Ünïcode", "plain", ""}
	want := []string{"creme", "ecole", "naive unicode", "plain", ""}
	for round := 0; round < 2; round++ {
		for i, s := range in {
			assert.Equal(t, want[i], f.fold(s))
			assert.Equal(t, Fold(s), f.fold(s))
		}
	}
}
