// Package deptree holds dependency trees and the side table of
// annotations the composition passes write.
//
// A Tree is built once (New or ReadCoNLL) and never changes afterwards.
// Everything learned about its nodes, the assigned term, the merged term
// and the merged flag, lives in an Annotations table keyed by address.
package deptree
