package mcpserver

// IndexFormat describes the layout of the generated vault so MCP clients can
// read Index.md and the entry documents without guessing.
const IndexFormat = `# Vault Index Format

The vault is generated from the ` + "`responses`" + ` table. Every row is an entry with
an identifier, content, an author and three relation lists: ` + "`up`" + ` (parents),
` + "`helpers`" + ` and ` + "`related`" + `.

## Index.md

` + "```" + `markdown
---
title: "Community Knowledge Index"
generated: "2025-03-14 09:26:53"
---

# Community Knowledge Index

<intro line>

## Knowledge Categories


>[!note]+ [[safety]]
>No sub-entries found.

>[!note]+ [[tools]]
>- [[spin]]
>	- [[tube]]


## Unconnected Entries

<intro line>

- [[stray]]


---

*Generated on 2025-03-14 09:26:53 from responses.db*
` + "```" + `

## Rules

1. One foldable ` + "`>[!note]+`" + ` callout per direct child of the root (` + "`m`" + ` by default),
   in ascending identifier order.
2. Callouts hold at most four list levels, one tab of indentation per level.
3. An entry already on the current branch is not repeated beneath itself, so
   cycles in ` + "`up`" + ` end the branch.
4. Entries that cannot trace back to the root through ` + "`up`" + ` are listed under
   "Unconnected Entries"; the section is omitted when there are none.
5. Only the two timestamps change between runs over an unchanged table.

## Entry documents

Each entry is written to ` + "`Commands/<id>.md`" + ` with frontmatter keys ` + "`up`" + `,
` + "`author`" + `, ` + "`helpers`" + `, ` + "`calls`" + ` and ` + "`related`" + `, the entry content, and an
` + "`>[!info]`" + ` callout summarizing the relations. Characters that are not valid in
file names (` + "`/ \\ : * ? \" < > |`" + `) are replaced with ` + "`_`" + `.
`
