package provisioner

import (
	"math/rand/v2"
	"strings"
)

const (
	maxBucketNameLen = 63
	suffixLen        = 6
	suffixAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateBucketName builds a globally-unique bucket name from project and
// environment. Both parts are lowercased and stripped to [a-z0-9-]; a random
// 6-char suffix keeps repeated provisions collision-free. Names over the
// 63-char S3 limit are truncated with the suffix preserved.
func GenerateBucketName(project, environment string) string {
	name := sanitizeNamePart(project) + "-" + sanitizeNamePart(environment) + "-data-lake-" + randomSuffix(suffixLen)
	if len(name) > maxBucketNameLen {
		name = name[:maxBucketNameLen-suffixLen] + name[len(name)-suffixLen:]
	}
	return name
}

func sanitizeNamePart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.IntN(len(suffixAlphabet))]
	}
	return string(b)
}
