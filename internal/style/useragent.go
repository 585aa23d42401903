package style

// UserAgentStylesheet is the built-in default stylesheet text, giving the
// handful of elements this engine treats specially their expected
// block/inline/replaced defaults. Parse and Resolve do not apply it on
// their own: it takes effect only in CSS text that includes it, where its
// rules have their ordinary specificity and the source order of their
// position in that text.
const UserAgentStylesheet = `
html, body, div, section, article, header, footer, nav, main, figure,
ul, ol, li, table, thead, tbody, tfoot, tr, p, blockquote, form, fieldset,
h1, h2, h3, h4, h5, h6 {
  display: block;
}

span, a, b, strong, i, em, small, sub, sup, label, code, abbr {
  display: inline;
}

img, svg, video, canvas, input, button, select, textarea {
  display: inline-block;
}

td, th {
  display: table-cell;
}

h1 { font-size: 2em; }
h2 { font-size: 1.5em; }
h3 { font-size: 1.17em; }
h4 { font-size: 1em; }
h5 { font-size: 0.83em; }
h6 { font-size: 0.67em; }

pre, code {
  white-space: pre;
  font-family: monospace;
}

table, thead {
  break-inside: avoid;
}
`
