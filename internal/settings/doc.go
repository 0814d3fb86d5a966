// Package settings loads and validates machine configuration from CUE
// files. A settings file describes the five wheel wirings, the rotor
// positions, ring settings, and turnover triggers of a machine; the file is
// unified with an embedded CUE schema before decoding, so shape errors
// surface with file positions instead of as zero values downstream.
//
// Historical wheel wirings (rotors I-VIII, reflectors A-C) ship as embedded
// presets and can be referenced by name.
package settings
