// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	RecipeNotFoundId Id = iota + 1
	RecipeParseErrorId
	InvalidSelectionId
	DependenciesNotSatisfiedId
	FetchFailedId
	PatchFailedId
	NativeBuildFailedId
	ExtensionBuildFailedId
	InstallFailedId
	PostInstallTestFailedId
	ConfigLoadFailedId
	StageLockedId
	PlanParseErrorId
)

type (
	// Id identifies an issue page.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation link appended to an issue page.
	HttpLink string

	// Issue is a Markdown page explaining a failure class and how to recover.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the page for a terminal. stylePath is a glamour style name
// ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

The recipe file given with ` + "`--recipe`" + ` does not exist.

## Things you can try:
- Check the path for typos
- Omit ` + "`--recipe`" + ` to use the built-in py-pennylane-lightning recipe:
~~~
$ recipekit info
~~~`,
	}

	recipeParseErrorIssue = &Issue{
		id: RecipeParseErrorId,
		mdMsg: `
# Failed to parse recipe!

The recipe contains CUE syntax errors or does not match the recipe schema.

## Common issues:
- A version with both ` + "`sha256`" + ` and ` + "`branch`" + `, or neither
- An enumerated variant whose default is not among its values
- A ` + "`when`" + ` condition naming a variant the recipe does not declare
- A malformed version constraint such as ` + "`3.21:3.x`" + `

## Example:
~~~cue
variants: [
  {name: "build_type", default: "Release", values: ["Debug", "Release"]},
]
~~~`,
	}

	invalidSelectionIssue = &Issue{
		id: InvalidSelectionId,
		mdMsg: `
# Invalid variant selection!

The spec string names a variant the recipe does not declare, or gives a
variant a value it does not accept. Nothing has been built.

## Things you can try:
- List the declared variants and their values:
~~~
$ recipekit info
~~~
- Use ` + "`+name`" + ` / ` + "`~name`" + ` only for on/off variants
- Use ` + "`name=value`" + ` for enumerated variants such as ` + "`build_type=Debug`",
	}

	dependenciesNotSatisfiedIssue = &Issue{
		id: DependenciesNotSatisfiedId,
		mdMsg: `
# Dependencies not satisfied!

A dependency required by the selected variants was not provided, or its
version falls outside the recipe's constraint.

## Things you can try:
- Show the active dependency edges:
~~~
$ recipekit deps +kokkos
~~~
- Provide the prefix on the command line:
~~~
$ recipekit build --dep kokkos=/opt/kokkos@3.7.00
~~~
- Or record it in the config file under ` + "`dependencies`",
	}

	fetchFailedIssue = &Issue{
		id: FetchFailedId,
		mdMsg: `
# Failed to fetch sources!

The source archive could not be downloaded, failed checksum verification,
or the git checkout failed.

## Things you can try:
- Check your network connection
- Point ` + "`--source`" + ` at an already unpacked source tree and drop ` + "`--fetch`" + `
- A checksum mismatch means the archive changed upstream; do not build it`,
	}

	patchFailedIssue = &Issue{
		id: PatchFailedId,
		mdMsg: `
# Failed to apply a patch!

A patch declared by the recipe did not apply cleanly to the source tree.

## Things you can try:
- Make sure the source tree is pristine (fetch it again with ` + "`--fetch`" + `)
- Check that the selected version is the one the patch targets`,
	}

	nativeBuildFailedIssue = &Issue{
		id: NativeBuildFailedId,
		mdMsg: `
# Native build failed!

CMake configure or the native compile exited with a non-zero status.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` and ` + "`+verbose`" + ` to see the compiler command lines
- Check that cmake and ninja are on your PATH and satisfy the recipe constraints
- Try disabling optional features, e.g. ` + "`~kokkos ~blas`",
	}

	extensionBuildFailedIssue = &Issue{
		id: ExtensionBuildFailedId,
		mdMsg: `
# Python extension build failed!

` + "`setup.py build_ext`" + ` exited with a non-zero status after the native
build succeeded.

## Things you can try:
- Check that py-pybind11, py-setuptools and py-numpy are installed for the
  configured interpreter
- Set ` + "`python`" + ` in the config file to the interpreter you want to build against`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Install failed!

Either the pip packaging step or the native install exited with a non-zero
status.

## Things you can try:
- Check that the install prefix is writable
- Re-run with ` + "`--verbose`" + ` to see the pip output`,
	}

	postInstallTestFailedIssue = &Issue{
		id: PostInstallTestFailedId,
		mdMsg: `
# Post-install tests failed!

The package was installed, but the C++ test runner reported failures. The
installation has been kept.

## Things you can try:
- Run the test runner yourself for details:
~~~
$ <prefix>/bin/pennylane_lightning_test_runner
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file has CUE syntax errors or values outside the config schema.

## Things you can try:
- Print the path being read:
~~~
$ recipekit config path
~~~
- Write a fresh default file:
~~~
$ recipekit config init
~~~`,
	}

	stageLockedIssue = &Issue{
		id: StageLockedId,
		mdMsg: `
# Stage directory is busy!

Another recipekit process is building in the same stage directory.

## Things you can try:
- Wait for the other build to finish
- Use a different ` + "`stage_root`" + ` for concurrent builds`,
	}

	planParseErrorIssue = &Issue{
		id: PlanParseErrorId,
		mdMsg: `
# Failed to parse build plan!

The HCL plan file has syntax errors or unknown attributes.

## Example plan:
~~~hcl
build "debug" {
  spec   = ["~kokkos", "build_type=Debug"]
  prefix = "/opt/lightning-debug"
  source = "./src"
}
~~~`,
	}

	issues = map[Id]*Issue{
		recipeNotFoundIssue.Id():           recipeNotFoundIssue,
		recipeParseErrorIssue.Id():         recipeParseErrorIssue,
		invalidSelectionIssue.Id():         invalidSelectionIssue,
		dependenciesNotSatisfiedIssue.Id(): dependenciesNotSatisfiedIssue,
		fetchFailedIssue.Id():              fetchFailedIssue,
		patchFailedIssue.Id():              patchFailedIssue,
		nativeBuildFailedIssue.Id():        nativeBuildFailedIssue,
		extensionBuildFailedIssue.Id():     extensionBuildFailedIssue,
		installFailedIssue.Id():            installFailedIssue,
		postInstallTestFailedIssue.Id():    postInstallTestFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		stageLockedIssue.Id():              stageLockedIssue,
		planParseErrorIssue.Id():           planParseErrorIssue,
	}
)

// Values returns every issue page ordered by ID.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the issue page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
