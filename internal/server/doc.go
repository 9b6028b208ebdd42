// Package server builds and runs the command that starts the Yii2 navigation
// language server: a node executable from the resolver plus the bundled
// server script, spoken to over stdio.
package server
