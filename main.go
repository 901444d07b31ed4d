// higenie is a small greeting form backed by a command bridge.
package main

import "github.com/higenie/higenie/cmd"

func main() {
	cmd.Execute()
}
