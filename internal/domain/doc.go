// Package domain contains the core business entities of the study service:
// documents holding extracted source text, the StudyArtifact generated from
// them, and the Summary envelope that persists an artifact. It is independent
// of any specific infrastructure or delivery mechanism.
package domain
