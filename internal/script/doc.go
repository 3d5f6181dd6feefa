// Package script runs text commands against a layer stack, one command per
// line, either from a script file or typed interactively.
//
// A line is a command name followed by whitespace-separated arguments.
// Blank lines and lines starting with '#' are ignored, and "q" or "quit"
// stops processing. Commands:
//
//	blur | sharpen | greyscale | sepia     filter the current layer
//	downscale W H                          shrink every layer
//	mosaic N                               mosaic the current layer with N seeds
//	current NAME | create NAME             select or add a layer
//	remove NAME | invisible NAME           remove or hide matching layers
//	transparent                            hide every layer
//	load FILE                              replace the current layer's image
//	save DIR TYPE                          write a layered directory
//	saveTopmost FILE TYPE                  write the current visible layer
//	saveBundle FILE | loadBundle FILE      write or read a compressed bundle
//	loadLayered DIR                        replace the stack from a directory
//	layers                                 list layers
//
// A failing command prints a message and processing continues with the
// next line.
package script
