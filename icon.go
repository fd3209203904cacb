package quillfield

// PluginIcon is the field icon shown in the content-type builder.
const PluginIcon = `<svg xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M20 4 9 15l-2 6 6-2L24 8"/><path d="M4 4h8"/><path d="M4 10h5"/><path d="M4 16h2"/></svg>`
