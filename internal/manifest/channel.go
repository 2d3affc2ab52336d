package manifest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ChannelRef is a channel reference normalized to either a short name or a
// full URL. Exactly one of Name and URL is set.
type ChannelRef struct {
	Name string
	URL  *url.URL
}

func (c ChannelRef) String() string {
	if c.URL != nil {
		return c.URL.String()
	}
	return c.Name
}

// ChannelError reports a channel specification that could not be normalized.
type ChannelError struct {
	Input string
	Err   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("invalid channel %q: %v", e.Input, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

var channelNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// defaultChannelAlias is the host that short channel names resolve under;
// URLs on this host collapse back to their short name.
var defaultChannelAlias = &url.URL{Scheme: "https", Host: "conda.anaconda.org", Path: "/"}

// ParseChannel normalizes a channel specification to a named-or-URL form.
// A URL under the alias host collapses back to its short name (the last
// path segment chain after the alias), any other URL stays a URL, and a
// bare string must be a valid channel name.
func ParseChannel(spec string, alias *url.URL) (ChannelRef, error) {
	if strings.Contains(spec, "://") {
		u, err := url.Parse(spec)
		if err != nil {
			return ChannelRef{}, &ChannelError{Input: spec, Err: err}
		}
		if u.Host == "" {
			return ChannelRef{}, &ChannelError{Input: spec, Err: fmt.Errorf("missing host")}
		}
		if alias != nil && u.Host == alias.Host {
			name := strings.Trim(strings.TrimPrefix(u.Path, strings.TrimSuffix(alias.Path, "/")), "/")
			if name != "" && channelNameRe.MatchString(name) {
				return ChannelRef{Name: name}, nil
			}
		}
		return ChannelRef{URL: u}, nil
	}

	if !channelNameRe.MatchString(spec) {
		return ChannelRef{}, &ChannelError{Input: spec, Err: fmt.Errorf("not a channel name or URL")}
	}
	return ChannelRef{Name: spec}, nil
}
