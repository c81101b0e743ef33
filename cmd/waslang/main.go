// Command waslang compiles the scripting language described in spec.md
// directly to WebAssembly 1.0 binary modules.
package main

import "github.com/cwbudde/waslang/cmd/waslang/cmd"

func main() {
	cmd.Execute()
}
