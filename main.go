// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/recipekit/recipekit/cmd/recipekit"

func main() {
	cmd.Execute()
}
