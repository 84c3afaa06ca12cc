package mcpserver

// NoteFormatContract describes the three source formats the pipeline ingests
// and the metadata it extracts from each, for LLM consumers that write files
// into the content root out of band (the server itself never writes).
const NoteFormatContract = `# Note Format Contract

The corpus is a plain directory tree. Three file formats are ingested;
everything else is ignored.

## Markdown notes (.md)

` + "```" + `markdown
---
id: spaced-repetition          # OPTIONAL – stable link target; defaults to the slug
title: Spaced repetition       # OPTIONAL – defaults to the filename stem
tags: [memory, learning]       # OPTIONAL – YAML list or single string
status: in progress            # OPTIONAL – free-form
certainty: likely              # OPTIONAL – free-form
importance: 7                  # OPTIONAL – number; consumers fall back to 5
start: 2024-01-01              # OPTIONAL – free-form date
finish: 2024-06-01             # OPTIONAL – free-form date
preview: One-line summary      # OPTIONAL
---

Body in Markdown (GFM tables, strikethrough, task lists, TeX math).

Link to other notes with [display text](note:TARGET-ID).
` + "```" + `

Unrecognized front-matter keys are ignored. A malformed front-matter block is
not an error: the whole file becomes the body.

## Org notes (.org)

` + "```" + `org
:PROPERTIES:
:ID: testing-effect
:STATUS: finished
:CERTAINTY: certain
:IMPORTANCE: 8
:START: 2024-01-01
:FINISH: 2024-03-01
:PREVIEW: One-line summary
:END:
#+title: Testing effect
#+filetags: :memory:learning:

Body in org markup: * headings, *bold*, /italic/, =verbatim=, ~code~,
#+begin_src / #+end_src blocks, #+begin_quote / #+end_quote.

Link to other notes with [[id:TARGET-ID]] or [[id:TARGET-ID][display text]].
` + "```" + `

Every property is optional. The body starts at the first line that is neither
drawer, directive, nor blank.

## Flashcards (.csv)

` + "```" + `csv
Front,Back
What is 2+2?,4
` + "```" + `

First line is the header, every further line one card. Cells split on every
comma (no escape syntax); surrounding quotes and whitespace are stripped.
CSV files carry no metadata header: the identifier is the slug, the title the
filename stem.

## Conventions

1. The slug is the file path relative to the content root, extension
   stripped, forward slashes (` + "`" + `slipbox/spacing.md` + "`" + ` → ` + "`" + `slipbox/spacing` + "`" + `).
2. Link targets are note identifiers, not paths. Give a note an explicit
   ` + "`" + `id` + "`" + ` (or ` + "`" + `:ID:` + "`" + `) when other notes will link to it; links to unknown
   identifiers are kept on the note but dropped from the graph.
3. Files directly under ` + "`" + `cards/` + "`" + `, and every .csv file, are classified as
   flashcards.
4. Directories starting with ` + "`" + `.` + "`" + ` and ` + "`" + `node_modules` + "`" + ` are never scanned.
5. Static files referenced by notes live in ` + "`" + `assets/` + "`" + ` (flat, no
   sub-folders) and are served at ` + "`" + `/assets/<filename>` + "`" + `.
6. Encoding is UTF-8 with a trailing newline.
`
