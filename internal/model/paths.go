package model

import "strings"

const hdPrefix = "/imagehd/"

// Basename returns the final path segment. The backend diffs tag assignments by basename.
func Basename(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// PathMatches reports whether a full item path ends with the given baseline entry,
// on a segment boundary. Baseline entries are usually basenames but may carry a prefix.
func PathMatches(itemPath, entry string) bool {
	entry = strings.TrimPrefix(entry, "/")
	if entry == "" {
		return false
	}
	if itemPath == entry || strings.TrimPrefix(itemPath, "/") == entry {
		return true
	}
	return strings.HasSuffix(itemPath, "/"+entry)
}

// FolderOf strips the image name and the HD prefix from a link:
// "/imagehd/vacation/day1/a.jpg" -> "vacation/day1/".
func FolderOf(hdLink, name string) string {
	folder := hdLink
	if name != "" {
		folder = strings.Replace(folder, name, "", 1)
	}
	return strings.Replace(folder, hdPrefix, "", 1)
}

// FolderKey drops the trailing separator of a folder path.
func FolderKey(folder string) string {
	return strings.TrimSuffix(folder, "/")
}

// DisplayFolderName turns a folder key into a short label:
// last segment, underscores as spaces, lower case.
func DisplayFolderName(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	return strings.ToLower(Basename(key))
}
