package errors

import (
	"fmt"
	"strings"
)

// Constructors for the domain error kinds. Each one names the offending
// path or entity so the CLI can report it without extra context.

// NewManifestNotFound reports a manifest path that cannot be read.
func NewManifestNotFound(path string, cause error) *BaseError {
	return Wrap(ManifestNotFoundCode, "manifest not found", cause).
		WithLocation(SourceLocation{File: path}).
		WithContext("path", path).
		WithSuggestion("Check that the project directory and its .yml manifest exist")
}

// NewMalformedManifest reports a structural defect in a manifest.
func NewMalformedManifest(path string, line int, reason string) *BaseError {
	return Newf(MalformedManifestCode, "malformed manifest: %s", reason).
		WithLocation(SourceLocation{File: path, Line: line}).
		WithContext("path", path)
}

// NewCyclicDependency reports a dependency cycle. chain lists the manifests
// from the first repeated one back to itself.
func NewCyclicDependency(chain []string) *BaseError {
	first := ""
	if len(chain) > 0 {
		first = chain[0]
	}
	return Newf(CyclicDependencyCode, "cyclic dependency: %s", strings.Join(chain, " -> ")).
		WithLocation(SourceLocation{File: first}).
		WithContext("cycle", chain).
		WithSuggestion("Remove one of the dependencies entries that closes the cycle")
}

// NewDependencyDepthExceeded reports a dependency chain deeper than limit.
func NewDependencyDepthExceeded(path string, limit int) *BaseError {
	return Newf(DependencyDepthExceededCode, "dependency depth exceeds limit of %d", limit).
		WithLocation(SourceLocation{File: path}).
		WithContext("limit", limit).
		WithSuggestion("Raise maxDepth in simpl.yaml if the graph is really this deep")
}

// NewEntityNotFound reports a missing entity declaration or end marker.
func NewEntityNotFound(file, entity, reason string) *BaseError {
	return Newf(EntityNotFoundCode, "entity %q: %s", entity, reason).
		WithLocation(SourceLocation{File: file}).
		WithContext("entity", entity)
}

// NewNoPortClause reports an entity without a complete port clause.
func NewNoPortClause(file, entity string) *BaseError {
	return Newf(NoPortClauseCode, "entity %q has no terminated port clause", entity).
		WithLocation(SourceLocation{File: file}).
		WithContext("entity", entity).
		WithSuggestion("Declare the ports as port ( ... ); inside the entity")
}

// NewUnparsablePortEntry reports a port entry that cannot be split.
func NewUnparsablePortEntry(file string, line int, entity, entry, reason string) *BaseError {
	return Newf(UnparsablePortEntryCode, "entity %q: port entry %q: %s", entity, entry, reason).
		WithLocation(SourceLocation{File: file, Line: line}).
		WithContext("entity", entity).
		WithContext("entry", entry)
}

// NewUnsupportedDirection reports a port mode the tool does not model.
func NewUnsupportedDirection(file string, line int, entity, port, direction string) *BaseError {
	return Newf(UnsupportedDirectionCode, "entity %q: port %q has unsupported direction %q", entity, port, direction).
		WithLocation(SourceLocation{File: file, Line: line}).
		WithContext("entity", entity).
		WithContext("port", port).
		WithSuggestion("Only in, out and buffer ports are supported")
}

// NewAmbiguousClockPort reports more than one clock candidate.
func NewAmbiguousClockPort(entity string, candidates []string) *BaseError {
	return Newf(AmbiguousClockPortCode, "entity %q has more than one clock port: %s", entity, strings.Join(candidates, ", ")).
		WithContext("entity", entity).
		WithContext("candidates", candidates).
		WithSuggestion("Rename the extra ports or narrow clock.indicators in simpl.yaml")
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("operation", operation)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(path, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, path)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithLocation(SourceLocation{File: path}).
		WithContext("operation", operation)
}

// NewUsageError reports a command line mistake.
func NewUsageError(format string, args ...interface{}) *BaseError {
	return Newf(UsageErrorCode, format, args...)
}
