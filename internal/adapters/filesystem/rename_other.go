//go:build !linux

package filesystem

func renameNoReplace(src, dst string) error {
	return renameChecked(src, dst)
}
