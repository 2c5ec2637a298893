package puller

import (
	"fmt"
	"regexp"
	"strings"
)

// Transport selects which clone URL variant is handed to git.
type Transport int

const (
	TransportHTTPS Transport = iota
	TransportSSH
)

func (t Transport) String() string {
	if t == TransportSSH {
		return "ssh"
	}

	return "https"
}

// Record is the repository metadata returned by the listing API.
// Records are immutable once fetched.
type Record struct {
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
	SSHURL   string `json:"ssh_url"`
	Fork     bool   `json:"fork"`
	Archived bool   `json:"archived"`
}

// URL returns the clone URL variant for the given transport.
func (r Record) URL(t Transport) string {
	if t == TransportSSH {
		return r.SSHURL
	}

	return r.CloneURL
}

// FilterOptions holds the independent exclusion predicates applied to a
// record set before cloning.
type FilterOptions struct {
	ExcludeForks    bool
	ExcludeArchived bool
	Name            *regexp.Regexp // optional name filter, nil matches all
}

// Filter applies the exclusions to records, preserving server order.
func Filter(records []Record, opts FilterOptions) []Record {
	filtered := make([]Record, 0, len(records))

	for _, rec := range records {
		if opts.ExcludeForks && rec.Fork {
			continue
		}

		if opts.ExcludeArchived && rec.Archived {
			continue
		}

		if opts.Name != nil && !opts.Name.MatchString(rec.Name) {
			continue
		}

		filtered = append(filtered, rec)
	}

	return filtered
}

// ValidateOrgName rejects empty names and path traversal attempts before the
// name is used as a directory component.
func ValidateOrgName(orgName string) error {
	if orgName == "" {
		return fmt.Errorf("organization name cannot be empty")
	}

	if strings.Contains(orgName, "..") || strings.Contains(orgName, "/") || strings.Contains(orgName, "\\") {
		return fmt.Errorf("invalid organization name: contains illegal characters")
	}

	return nil
}
