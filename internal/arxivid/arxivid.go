// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxivid normalizes and validates arXiv paper identifiers. Every
// identifier entering a graph or store lookup is normalized first so that
// "2511.00617v2", "arXiv:2511.00617" and "2511.00617" name the same paper.
package arxivid

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	versionRe   = regexp.MustCompile(`v(\d+)$`)
	newFormatRe = regexp.MustCompile(`^\d{4}\.\d{4,5}$`)
	oldFormatRe = regexp.MustCompile(`^[a-z\-]+/\d{7}$`)
)

// Normalize returns the canonical form of an arXiv ID: lowercased, common
// prefixes removed, version suffix stripped.
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "arxiv:")
	id = strings.TrimPrefix(id, "https://arxiv.org/abs/")
	id = strings.TrimSpace(id)
	return versionRe.ReplaceAllString(id, "")
}

// Version extracts the version number from an ID, defaulting to 1.
func Version(id string) int {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return 1
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return v
}

// Valid reports whether the string is a well-formed arXiv ID in either the
// new (2511.00617) or old (hep-th/9901001) format.
func Valid(id string) bool {
	if id == "" {
		return false
	}
	clean := Normalize(id)
	return newFormatRe.MatchString(clean) || oldFormatRe.MatchString(clean)
}
