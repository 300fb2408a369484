package compiler

// Schema is the CUE definition every Data Dictionary source is unified with.
// Definitions are closed, so misspelled keys are rejected.
const Schema = `
#DataType: "structure" | "struct_array" |
	=~"^(STR|INT|FLT|CPX)_[0-6]D$" |
	=~"^(str|int|flt|cpx)(_[0-6]d)?_type$"

#Lifecycle: "constant" | "static" | "dynamic"

#Name: =~"^[a-z_][a-z0-9_]*$"

#Field: {
	type:                     #DataType
	documentation?:           string
	units?:                   string
	lifecycle?:               #Lifecycle
	coordinates?:             [...string]
	coordinates_same_as?:     [...string]
	alternative_coordinate1?: [...string]
	fields?: {[#Name]: #Field}
}

#IDS: {
	documentation?: string
	lifecycle?:     #Lifecycle
	fields: {[#Name]: #Field}
}

#Dictionary: {
	version: =~"^[0-9]+\\.[0-9]+\\.[0-9]+"
	ids: {[#Name]: #IDS}
}
`
