// Package dbg turns opaque identifiers into readable names for logs and
// String methods. Names are handed out lazily, in order of first use, and
// are never forgotten, so they are only stable within one process.
package dbg

import (
	"fmt"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

var (
	mu   sync.Mutex
	memo = make(map[interface{}]string)
)

func init() {
	// The same name does not mean the same object across runs.
	petname.NonDeterministicMode()
}

// Name returns the readable name for key, which must be comparable. A nil
// key is named "Ø".
func Name(key interface{}) string {
	if key == nil {
		return "Ø"
	}
	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo[key]; ok {
		return r
	}
	r := fmt.Sprintf("%s%s", title(petname.Adjective()), title(petname.Name()))
	memo[key] = r
	return r
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
