// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/fulmenhq/crucible/cmd/crucible"

func main() {
	cmd.Execute()
}
