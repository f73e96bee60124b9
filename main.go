// Command gfg is a byte-compatible reimplementation of Git's object
// database and index.
package main

import "github.com/rtandon/gfg/cmd"

func main() {
	cmd.Execute()
}
