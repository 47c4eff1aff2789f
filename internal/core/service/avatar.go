package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

// NewAvatarFunc returns an AvatarFunc that renders a deterministic initials
// avatar URL from the username. The URL is computed once at registration and
// stored; it is never recomputed afterwards.
func NewAvatarFunc(baseURL string) ports.AvatarFunc {
	base := strings.TrimRight(baseURL, "/")
	return func(username string) string {
		name := strings.TrimSpace(username)
		if name == "" {
			return base + "/?name=User&background=random"
		}
		return fmt.Sprintf("%s/?name=%s&background=random&color=fff&size=256", base, url.QueryEscape(name))
	}
}
