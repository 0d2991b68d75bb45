package format

// Package format picks the rendition to download. It matches stream
// descriptors against ordered resolution preferences, lists the qualities
// offered in the console menu, and maps the dashboard's quality and bitrate
// labels to engine selector expressions.
