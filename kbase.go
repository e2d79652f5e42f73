// Package kbase maintains a local knowledge corpus built from crawled web
// pages and PDF documents, and answers retrieval queries over it by blending
// semantic similarity with lexical token overlap.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., trafilatura/, sqlite/, gemini/).
package kbase
