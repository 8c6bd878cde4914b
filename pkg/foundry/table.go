// SPDX-License-Identifier: MPL-2.0

package foundry

import (
	"slices"

	"github.com/fulmenhq/crucible/pkg/catalog"
)

// Info is the metadata record of one exit code.
type Info struct {
	Code          int                         `json:"code"`
	Variant       string                      `json:"variant,omitempty"`
	Name          string                      `json:"name,omitempty"`
	Message       string                      `json:"message"`
	Context       string                      `json:"context"`
	Category      Category                    `json:"category"`
	RetryHint     catalog.Optional[RetryHint] `json:"retry_hint,omitzero"`
	BSDEquivalent string                      `json:"bsd_equivalent,omitempty"`
	PythonNote    string                      `json:"python_note,omitempty"`
	Signal        int                         `json:"signal,omitempty"`
	SignalName    string                      `json:"signal_name,omitempty"`
}

var (
	retry       = catalog.Some(RetryHintRetry)
	noRetry     = catalog.Some(RetryHintNoRetry)
	investigate = catalog.Some(RetryHintInvestigate)
)

// table is the single source of truth for exit-code metadata.
var table = []Info{
	{
		Code: 0, Variant: "Success", Name: "EXIT_SUCCESS", Category: CategoryStandard,
		Message: "Successful execution",
		Context: "Command completed without errors",
	},
	{
		Code: 1, Variant: "Failure", Name: "EXIT_FAILURE", Category: CategoryStandard,
		Message: "Generic failure (unspecified error)",
		Context: "Use when no more specific exit code applies",
	},

	{
		Code: 10, Variant: "PortInUse", Name: "EXIT_PORT_IN_USE", Category: CategoryNetworking,
		Message: "Specified port is already in use",
		Context: "Server startup when port unavailable and fail_if_unavailable strategy",
	},
	{
		Code: 11, Variant: "PortRangeExhausted", Name: "EXIT_PORT_RANGE_EXHAUSTED", Category: CategoryNetworking,
		Message: "No available ports in configured range",
		Context: "Server startup when all ports in environment range occupied",
	},
	{
		Code: 12, Variant: "InstanceAlreadyRunning", Name: "EXIT_INSTANCE_ALREADY_RUNNING", Category: CategoryNetworking,
		Message: "Another instance already running on target port",
		Context: "Server startup when PID registry shows active process on port",
	},
	{
		Code: 13, Variant: "NetworkUnreachable", Name: "EXIT_NETWORK_UNREACHABLE", Category: CategoryNetworking,
		Message: "Network destination unreachable",
		Context: "Client connections, health checks, external service validation",
	},
	{
		Code: 14, Variant: "ConnectionRefused", Name: "EXIT_CONNECTION_REFUSED", Category: CategoryNetworking,
		Message: "Connection refused by remote host",
		Context: "Database connections, API endpoints, upstream services",
	},
	{
		Code: 15, Variant: "ConnectionTimeout", Name: "EXIT_CONNECTION_TIMEOUT", Category: CategoryNetworking,
		Message: "Connection attempt timed out",
		Context: "Slow networks, unresponsive services, firewall blocks",
	},

	{
		Code: 20, Variant: "ConfigInvalid", Name: "EXIT_CONFIG_INVALID", Category: CategoryConfiguration,
		Message:   "Configuration file failed validation",
		Context:   "Startup validation, schema mismatches, invalid YAML/JSON",
		RetryHint: noRetry,
	},
	{
		Code: 21, Variant: "MissingDependency", Name: "EXIT_MISSING_DEPENDENCY", Category: CategoryConfiguration,
		Message:   "Required dependency not found",
		Context:   "Missing binaries, libraries, or runtime requirements",
		RetryHint: investigate,
	},
	{
		Code: 22, Variant: "SsotVersionMismatch", Name: "EXIT_SSOT_VERSION_MISMATCH", Category: CategoryConfiguration,
		Message:   "SSOT (Crucible) version incompatible",
		Context:   "Helper library detects unsupported Crucible version",
		RetryHint: noRetry,
	},
	{
		Code: 23, Variant: "ConfigFileNotFound", Name: "EXIT_CONFIG_FILE_NOT_FOUND", Category: CategoryConfiguration,
		Message: "Required configuration file not found",
		Context: "Explicitly specified config path doesn't exist",
	},
	{
		Code: 24, Variant: "EnvironmentInvalid", Name: "EXIT_ENVIRONMENT_INVALID", Category: CategoryConfiguration,
		Message: "Invalid or unsupported environment specification",
		Context: "Unknown environment name, missing environment config",
	},

	{
		Code: 30, Variant: "HealthCheckFailed", Name: "EXIT_HEALTH_CHECK_FAILED", Category: CategoryRuntime,
		Message:   "Health check endpoint returned non-healthy status",
		Context:   "Startup health validation, readiness probes",
		RetryHint: retry,
	},
	{
		Code: 31, Variant: "DatabaseUnavailable", Name: "EXIT_DATABASE_UNAVAILABLE", Category: CategoryRuntime,
		Message:   "Database connection failed or unavailable",
		Context:   "Startup connection checks, critical query failures",
		RetryHint: retry,
	},
	{
		Code: 32, Variant: "ExternalServiceUnavailable", Name: "EXIT_EXTERNAL_SERVICE_UNAVAILABLE", Category: CategoryRuntime,
		Message: "Required external service unavailable",
		Context: "API dependencies, message queues, cache servers",
	},
	{
		Code: 33, Variant: "ResourceExhausted", Name: "EXIT_RESOURCE_EXHAUSTED", Category: CategoryRuntime,
		Message:   "System resources exhausted (memory, disk, file descriptors)",
		Context:   "Out-of-memory, disk full, too many open files",
		RetryHint: investigate,
	},
	{
		Code: 34, Variant: "OperationTimeout", Name: "EXIT_OPERATION_TIMEOUT", Category: CategoryRuntime,
		Message:   "Operation exceeded timeout threshold",
		Context:   "Long-running tasks, async operations, batch processing",
		RetryHint: retry,
	},

	{
		Code: 40, Variant: "InvalidArgument", Name: "EXIT_INVALID_ARGUMENT", Category: CategoryUsage,
		Message: "Invalid command-line argument or flag value",
		Context: "Type errors, out-of-range values, malformed input",
	},
	{
		Code: 41, Variant: "MissingRequiredArgument", Name: "EXIT_MISSING_REQUIRED_ARGUMENT", Category: CategoryUsage,
		Message: "Required command-line argument not provided",
		Context: "Missing --config, --port, or other required flags",
	},
	{
		Code: 64, Variant: "Usage", Name: "EXIT_USAGE", Category: CategoryUsage,
		Message:       "Command-line usage error",
		Context:       "BSD sysexits.h EX_USAGE - wrong number of arguments, bad syntax",
		BSDEquivalent: "EX_USAGE",
	},

	{
		Code: 50, Variant: "PermissionDenied", Name: "EXIT_PERMISSION_DENIED", Category: CategoryPermissions,
		Message: "Insufficient permissions for operation",
		Context: "File access, port binding (<1024), privileged operations",
	},
	{
		Code: 51, Variant: "FileNotFound", Name: "EXIT_FILE_NOT_FOUND", Category: CategoryPermissions,
		Message: "Required file not found",
		Context: "Assets, templates, data files (not config - use 23)",
	},
	{
		Code: 52, Variant: "DirectoryNotFound", Name: "EXIT_DIRECTORY_NOT_FOUND", Category: CategoryPermissions,
		Message: "Required directory not found",
		Context: "State directories, log paths, data directories",
	},
	{
		Code: 53, Variant: "FileReadError", Name: "EXIT_FILE_READ_ERROR", Category: CategoryPermissions,
		Message: "Error reading file",
		Context: "Corrupt files, I/O errors, encoding issues",
	},
	{
		Code: 54, Variant: "FileWriteError", Name: "EXIT_FILE_WRITE_ERROR", Category: CategoryPermissions,
		Message: "Error writing file",
		Context: "Disk full, read-only filesystem, permission errors",
	},

	{
		Code: 60, Variant: "DataInvalid", Name: "EXIT_DATA_INVALID", Category: CategoryData,
		Message: "Input data failed validation",
		Context: "Schema validation, business rule violations",
	},
	{
		Code: 61, Variant: "ParseError", Name: "EXIT_PARSE_ERROR", Category: CategoryData,
		Message: "Error parsing input data",
		Context: "Malformed JSON/YAML/XML, syntax errors",
	},
	{
		Code: 62, Variant: "TransformationFailed", Name: "EXIT_TRANSFORMATION_FAILED", Category: CategoryData,
		Message: "Data transformation or conversion failed",
		Context: "Type conversions, format transformations, encoding changes",
	},
	{
		Code: 63, Variant: "DataCorrupt", Name: "EXIT_DATA_CORRUPT", Category: CategoryData,
		Message: "Data corruption detected",
		Context: "Checksum failures, integrity violations",
	},

	{
		Code: 70, Variant: "AuthenticationFailed", Name: "EXIT_AUTHENTICATION_FAILED", Category: CategorySecurity,
		Message: "Authentication failed",
		Context: "Invalid credentials, expired tokens, auth service unavailable",
	},
	{
		Code: 71, Variant: "AuthorizationFailed", Name: "EXIT_AUTHORIZATION_FAILED", Category: CategorySecurity,
		Message: "Authorization failed (authenticated but insufficient permissions)",
		Context: "RBAC failures, scope violations, resource access denied",
	},
	{
		Code: 72, Variant: "SecurityViolation", Name: "EXIT_SECURITY_VIOLATION", Category: CategorySecurity,
		Message: "Security policy violation detected",
		Context: "Suspicious activity, rate limit exceeded, IP blocklist",
	},
	{
		Code: 73, Variant: "CertificateInvalid", Name: "EXIT_CERTIFICATE_INVALID", Category: CategorySecurity,
		Message:       "TLS/SSL certificate validation failed",
		Context:       "Expired certs, untrusted CAs, hostname mismatches",
		BSDEquivalent: "EX_PROTOCOL",
	},

	{
		Code: 80, Variant: "MetricsUnavailable", Name: "EXIT_METRICS_UNAVAILABLE", Category: CategoryObservability,
		Message: "Metrics endpoint or collection system unavailable",
		Context: "Use for observability-focused tools (Prometheus exporters, StatsD agents). " +
			"Workhorses SHOULD log warning and continue unless configured to fail-fast.",
	},
	{
		Code: 81, Variant: "TracingFailed", Name: "EXIT_TRACING_FAILED", Category: CategoryObservability,
		Message: "Distributed tracing system unavailable",
		Context: "OTLP exporter failed, Jaeger collector unreachable",
	},
	{
		Code: 82, Variant: "LoggingFailed", Name: "EXIT_LOGGING_FAILED", Category: CategoryObservability,
		Message: "Logging system unavailable or misconfigured",
		Context: "Log aggregator unreachable, log file unwritable",
	},
	{
		Code: 83, Variant: "AlertSystemFailed", Name: "EXIT_ALERT_SYSTEM_FAILED", Category: CategoryObservability,
		Message: "Alerting system unavailable",
		Context: "PagerDuty API failed, Slack webhook unreachable",
	},
	{
		Code: 84, Variant: "StructuredLoggingFailed", Name: "EXIT_STRUCTURED_LOGGING_FAILED", Category: CategoryObservability,
		Message: "Structured logging system unavailable",
		Context: "JSON log aggregator unreachable, log schema validation failed",
	},

	{
		Code: 91, Variant: "TestFailure", Name: "EXIT_TEST_FAILURE", Category: CategoryTesting,
		Message: "One or more tests failed",
		Context: "Test assertions failed, expected behavior not met. " +
			"Maps to pytest exit code 1, Go test failure, Jest failure.",
	},
	{
		Code: 92, Variant: "TestError", Name: "EXIT_TEST_ERROR", Category: CategoryTesting,
		Message: "Test execution error (not test failure)",
		Context: "Test setup failed, fixture unavailable, test harness error. " +
			"Maps to pytest exit code 3 (internal error).",
	},
	{
		Code: 93, Variant: "TestInterrupted", Name: "EXIT_TEST_INTERRUPTED", Category: CategoryTesting,
		Message: "Test run interrupted by user or system",
		Context: "Ctrl+C during tests, system signal, user cancellation. Maps to pytest exit code 2.",
	},
	{
		Code: 94, Variant: "TestUsageError", Name: "EXIT_TEST_USAGE_ERROR", Category: CategoryTesting,
		Message: "Test command usage error",
		Context: "Invalid test arguments, bad configuration. Maps to pytest exit code 4.",
	},
	{
		Code: 95, Variant: "TestNoTestsCollected", Name: "EXIT_TEST_NO_TESTS_COLLECTED", Category: CategoryTesting,
		Message: "No tests found or all tests skipped",
		Context: "Empty test suite, all tests deselected or skipped. Maps to pytest exit code 5.",
	},
	{
		Code: 96, Variant: "CoverageThresholdNotMet", Name: "EXIT_COVERAGE_THRESHOLD_NOT_MET", Category: CategoryTesting,
		Message: "Test coverage below required threshold",
		Context: "Code coverage validation, quality gate failure",
	},

	{
		Code: 129, Variant: "SignalHup", Name: "EXIT_SIGNAL_HUP", Category: CategorySignals,
		Message:       "Hangup signal (SIGHUP) - config reload via restart",
		Context:       "Config reload via restart-based pattern with mandatory schema validation. Process exits with 129, supervisor restarts with new config",
		BSDEquivalent: "128 + 1", Signal: 1, SignalName: "SIGHUP",
	},
	{
		Code: 130, Variant: "SignalInt", Name: "EXIT_SIGNAL_INT", Category: CategorySignals,
		Message:       "Interrupt signal (SIGINT) - user interrupt with Ctrl+C double-tap",
		Context:       "Ctrl+C pressed. First tap initiates graceful shutdown, second within 2s forces immediate exit. Same exit code for both modes",
		BSDEquivalent: "128 + 2", Signal: 2, SignalName: "SIGINT",
	},
	{
		Code: 131, Variant: "SignalQuit", Name: "EXIT_SIGNAL_QUIT", Category: CategorySignals,
		Message:       "Quit signal (SIGQUIT) - immediate exit",
		Context:       `Ctrl+\ on Unix, Ctrl+Break on Windows. Immediate termination without cleanup, used for emergency shutdown or core dumps`,
		BSDEquivalent: "128 + 3", Signal: 3, SignalName: "SIGQUIT",
	},
	{
		Code: 137, Variant: "SignalKill", Name: "EXIT_SIGNAL_KILL", Category: CategorySignals,
		Message:       "Kill signal (SIGKILL)",
		Context:       "Forceful termination, non-graceful shutdown (not catchable)",
		BSDEquivalent: "128 + 9", Signal: 9, SignalName: "SIGKILL",
		PythonNote: "Cannot be caught in Python (OS-level)",
	},
	{
		Code: 141, Variant: "SignalPipe", Name: "EXIT_SIGNAL_PIPE", Category: CategorySignals,
		Message:       "Broken pipe (SIGPIPE) - observe only",
		Context:       "Writing to closed pipe/socket. Default handling is observe only (log and exit gracefully); network services may ignore it",
		BSDEquivalent: "128 + 13", Signal: 13, SignalName: "SIGPIPE",
		PythonNote: "Raised as BrokenPipeError exception",
	},
	{
		Code: 142, Variant: "SignalAlrm", Name: "EXIT_SIGNAL_ALRM", Category: CategorySignals,
		Message:       "Alarm signal (SIGALRM) - watchdog timeout",
		Context:       "Watchdog timer expired. Treat as timeout-induced exit",
		BSDEquivalent: "128 + 14", Signal: 14, SignalName: "SIGALRM",
		PythonNote: "Supported by signal module, rarely used in practice",
	},
	{
		Code: 143, Variant: "SignalTerm", Name: "EXIT_SIGNAL_TERM", Category: CategorySignals,
		Message:       "Termination signal (SIGTERM) - graceful shutdown",
		Context:       "Graceful shutdown requested by container orchestrator or process supervisor. Standard 30-second timeout for cleanup handlers before exit",
		BSDEquivalent: "128 + 15", Signal: 15, SignalName: "SIGTERM",
		PythonNote: "Default signal for graceful shutdown",
	},
	{
		Code: 138, Variant: "SignalUsr1", Name: "EXIT_SIGNAL_USR1", Category: CategorySignals,
		Message:       "User-defined signal 1 (SIGUSR1) - custom handler",
		Context:       "Application-specific signal (e.g., reopen logs, dump stats, trigger profiling). Linux numbering; macOS/FreeBSD use signal 30 (exit 158)",
		BSDEquivalent: "128 + 10", Signal: 10, SignalName: "SIGUSR1",
	},
	{
		Code: 140, Variant: "SignalUsr2", Name: "EXIT_SIGNAL_USR2", Category: CategorySignals,
		Message:       "User-defined signal 2 (SIGUSR2) - custom handler",
		Context:       "Application-specific signal (e.g., toggle debug mode, rotate credentials). Linux numbering; macOS/FreeBSD use signal 31 (exit 159)",
		BSDEquivalent: "128 + 12", Signal: 12, SignalName: "SIGUSR2",
	},
}

var (
	byCode    map[ExitCode]*Info
	byVariant map[string]ExitCode
	byName    map[string]ExitCode
	bySignal  map[int]ExitCode
	ordered   []ExitCode
)

func init() {
	byCode = make(map[ExitCode]*Info, len(table))
	byVariant = make(map[string]ExitCode, len(table))
	byName = make(map[string]ExitCode, len(table))
	bySignal = make(map[int]ExitCode)

	for i := range table {
		info := &table[i]
		code := ExitCode(info.Code)
		byCode[code] = info
		byVariant[info.Variant] = code
		byName[info.Name] = code
		if info.Signal != 0 {
			bySignal[info.Signal] = code
		}
		ordered = append(ordered, code)
	}
	slices.Sort(ordered)

	variants := make([]string, len(ordered))
	for i, code := range ordered {
		variants[i] = byCode[code].Variant
	}
	catalog.Register(catalog.Descriptor{
		Name:    "foundry.ExitCode",
		Version: ExitCodesVersion,
		Policy:  catalog.Permissive,
		Tags:    variants,
		Describe: func(tag string) (string, error) {
			code, _ := Parse(tag)
			return code.Message(), nil
		},
	})
	catalog.Register(categories.Descriptor())
	catalog.Register(retryHints.Descriptor())
}
