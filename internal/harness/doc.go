// Package harness runs conformance scenarios against the IDS toolchain.
//
// A scenario is a YAML file naming a Data Dictionary (a CUE file or
// directory, relative to the scenario), an IDS, the document data as a
// nested map and optional mutations applied after filling. The harness
// builds the document, validates its coordinates, tensorizes it, stores the
// tensor set in an in-memory SQLite store, reads it back and decodes it into
// a fresh document. Assertions are evaluated against the outcome:
//
//	name: ip_follows_time
//	dictionary: ../dictionary.cue
//	ids: core_profiles
//	data:
//	  ids_properties: {homogeneous_time: 1}
//	  time: [0.0, 1.0]
//	  global_quantities: {ip: [1.5, 2.5]}
//	assertions:
//	  - type: valid
//	  - type: roundtrip
//	  - type: dense
//	    variable: global_quantities.ip
//	  - type: dimension
//	    name: time
//	    size: 2
//
// Each run uses a fresh store and a sequential entry ID generator, so the
// tensor set snapshot written by RunWithGolden is byte-identical across runs.
package harness
