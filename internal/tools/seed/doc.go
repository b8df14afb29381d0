// Package seed fills a local game database with demo content.
//
// It imports story documents (the bundled samples or a directory of YAML
// files) and gives each listed user an alive character so the game can be
// played straight away.
package seed
