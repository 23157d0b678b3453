package symlinks

import "github.com/arthur-debert/recent-work/pkg/naming"

func hashOf(path string) string {
	return naming.ShortHash(path)
}
