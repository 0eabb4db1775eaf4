//go:build unix

package present

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
)

func fillOwnership(e *Entry, info fs.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	e.Nlink = uint64(st.Nlink)

	if u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10)); err == nil {
		e.User = u.Username
	}
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(st.Gid), 10)); err == nil {
		e.Group = g.Name
	}
}
