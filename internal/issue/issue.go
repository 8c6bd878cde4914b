// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	PayloadDecodeFailedId
	UnknownKindId
	UnknownVariantId
	ConformanceFailedId
	VersionMismatchId
	ConfigLoadFailedId
	CatalogPinMismatchId
	UnknownExitCodeId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // external documentation for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Input file not found!

The file you passed to crucible does not exist or is not readable.

## Things you can try:
- Check the path for typos
- Pipe the document through standard input instead:
~~~
$ cat manifest.json | crucible payload decode archive-manifest -
~~~`,
	}

	payloadDecodeFailedIssue = &Issue{
		id: PayloadDecodeFailedId,
		mdMsg: `
# Failed to decode payload!

The document does not match the shape of the requested payload kind.
The error names the first offending field using a JSON path such as
` + "`entries[1].type`" + `.

## Common causes:
- A required field is missing
- A field has the wrong JSON type (for example a string where a number is expected)
- Keys are not snake_case (` + "`entry_count`" + `, not ` + "`entryCount`" + `)
- The document is not a JSON object

## Things you can try:
- Print the schema of the kind:
~~~
$ crucible payload schema archive-manifest
~~~
- Run the full conformance report for more detail:
~~~
$ crucible payload validate archive-manifest manifest.json
~~~`,
		extLinks: []HttpLink{"https://www.rfc-editor.org/rfc/rfc8259"},
	}

	unknownKindIssue = &Issue{
		id: UnknownKindId,
		mdMsg: `
# Unknown payload kind!

The payload kind you requested is not registered.

## Things you can try:
- List the registered kinds:
~~~
$ crucible payload kinds
~~~`,
	}

	unknownVariantIssue = &Issue{
		id: UnknownVariantId,
		mdMsg: `
# Unrecognized variant!

A tag is not part of the closed catalog it was decoded against.
Tags are matched exactly, so ` + "`Tar.GZ`" + ` does not match ` + "`tar.gz`" + `.

## Things you can try:
- List the tags of the enumeration:
~~~
$ crucible catalogs tags fulpack.ArchiveFormat
~~~
- Upgrade crucible if the producer uses a newer catalog version`,
	}

	conformanceFailedIssue = &Issue{
		id: ConformanceFailedId,
		mdMsg: `
# Payload does not conform!

The payload decoded, but it breaks the schema or a documented invariant of its kind.
Consumers still accept it; producers must not emit it.

## Common causes:
- ` + "`entry_count`" + ` disagrees with the number of entries
- ` + "`compression_ratio`" + ` is not ` + "`total_size / compressed_size`" + `
- ` + "`formatted`" + ` is not ` + "`algorithm:hex`" + `
- ` + "`valid`" + ` is true while errors are reported`,
	}

	versionMismatchIssue = &Issue{
		id: VersionMismatchId,
		mdMsg: `
# Catalog version mismatch!

The envelope was produced against a catalog version this build cannot read.
Readers accept the same major version up to their own compiled version.

## Things you can try:
- Show the compiled catalog versions:
~~~
$ crucible catalogs list
~~~
- Upgrade crucible to a release that ships the newer catalog`,
		extLinks: []HttpLink{"https://semver.org"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

crucible could not load or validate its configuration file.

## Things you can try:
- Show where crucible looks for its configuration:
~~~
$ crucible config path
~~~
- Recreate a default configuration:
~~~
$ crucible config init --force
~~~
- Check the CUE syntax of your config file`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	catalogPinMismatchIssue = &Issue{
		id: CatalogPinMismatchId,
		mdMsg: `
# Catalog pin not satisfied!

Your configuration pins a catalog to a version constraint that the compiled catalog
does not satisfy.

## Example pin:
~~~cue
catalogs: {
  "fulpack": "^1.0.0"
}
~~~

## Things you can try:
- Relax the constraint in your config file
- Install a crucible build that ships a matching catalog version`,
	}

	unknownExitCodeIssue = &Issue{
		id: UnknownExitCodeId,
		mdMsg: `
# Unknown exit code!

The exit code is not declared by the foundry catalog. Unknown codes are preserved
as-is and carry no metadata.

## Things you can try:
- List the declared codes:
~~~
$ crucible exit-codes list
~~~
- Codes 129 to 165 usually mean the process was killed by a signal (128 + n)`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

crucible could not read or write a file it needs.

## Things you can try:
- Check the permissions of the file and its directory
- Run ` + "`crucible config path`" + ` to see which files crucible uses`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():        fileNotFoundIssue,
		payloadDecodeFailedIssue.Id(): payloadDecodeFailedIssue,
		unknownKindIssue.Id():         unknownKindIssue,
		unknownVariantIssue.Id():      unknownVariantIssue,
		conformanceFailedIssue.Id():   conformanceFailedIssue,
		versionMismatchIssue.Id():     versionMismatchIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		catalogPinMismatchIssue.Id():  catalogPinMismatchIssue,
		unknownExitCodeIssue.Id():     unknownExitCodeIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
