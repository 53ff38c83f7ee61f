package debughelper

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CallSite returns the base file name and the package-less function name of
// the caller skip frames above CallSite. Unknown frames yield "???".
func CallSite(skip int) (file, function string) {
	pc, path, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???", "???"
	}

	file = filepath.Base(path)
	function = "???"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = shortFuncName(fn.Name())
	}
	return file, function
}

// shortFuncName turns "github.com/a/b/pkg.(*T).Method" into "(*T).Method".
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func TraceStack() string {
	buf := make([]byte, 4<<10)
	n := runtime.Stack(buf, false)
	return "stack:\n" + string(buf[:n])
}
