// Package config holds runtime settings and the .terrareport.yaml project
// file: cloud project, credentials, named analyses, report layout
// overrides and the publishing target.
package config
