// Package model loads the definitions model that templates render against.
//
// A model is a YAML or JSON document, normally a mapping with a "nodes"
// sequence of struct and enum definitions:
//
//	nodes:
//	  - trait: struct
//	    name: Point
//	    members:
//	      - name: x
//	        type: {name: float}
//
// The render context built by [Model.Context] exposes the document as "ast"
// and the model's namespace, the stem of its file name, as "namespace".
package model
