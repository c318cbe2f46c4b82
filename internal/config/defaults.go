package config

const (
	defaultInboxDir           = "~/vault/_inbox"
	defaultArchiveDir         = "~/vault/archive"
	defaultQuarantineDir      = "~/vault/quarantine"
	defaultLogDir             = "~/.local/share/conductor/logs"
	defaultLedgerPath         = "~/.local/share/conductor/ledger.db"
	defaultAPIBind            = "127.0.0.1:8048"
	defaultRedisAddr          = "127.0.0.1:6379"
	defaultJobTTLHours        = 24
	defaultCommandTTLSeconds  = 30
	defaultHeartbeatInterval  = 5
	defaultPopTimeout         = 5
	defaultPauseInterval      = 10
	defaultErrorRetryInterval = 5
	defaultExtractorTimeout   = 120
	defaultClassifierTimeout  = 60
	defaultEmbedderTimeout    = 30
	defaultConfidenceFloor    = 0.5
	defaultConfidenceTarget   = 0.7
	defaultDeadLetterLimit    = 3
	defaultInboxPollInterval  = 5
	defaultInboxSettleSeconds = 2
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultVectorCollection   = "vault_files"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir:      defaultInboxDir,
			ArchiveDir:    defaultArchiveDir,
			QuarantineDir: defaultQuarantineDir,
			LogDir:        defaultLogDir,
			LedgerPath:    defaultLedgerPath,
			APIBind:       defaultAPIBind,
		},
		Redis: Redis{
			Addr:              defaultRedisAddr,
			JobTTLHours:       defaultJobTTLHours,
			CommandTTLSeconds: defaultCommandTTLSeconds,
		},
		Worker: Worker{
			HeartbeatInterval:   defaultHeartbeatInterval,
			PopTimeout:          defaultPopTimeout,
			PauseInterval:       defaultPauseInterval,
			ErrorRetryInterval:  defaultErrorRetryInterval,
			ContentionProcesses: nil,
			PreventSleep:        true,
		},
		Extractor: Extractor{
			TimeoutSeconds: defaultExtractorTimeout,
		},
		Classifier: Classifier{
			TimeoutSeconds: defaultClassifierTimeout,
		},
		Embedder: Embedder{
			Collection:     defaultVectorCollection,
			TimeoutSeconds: defaultEmbedderTimeout,
		},
		Gates: Gates{
			ConfidenceFloor:  defaultConfidenceFloor,
			ConfidenceTarget: defaultConfidenceTarget,
		},
		Triage: Triage{
			Enabled:             true,
			DeadLetterThreshold: defaultDeadLetterLimit,
		},
		Inbox: Inbox{
			Enabled:       true,
			PollInterval:  defaultInboxPollInterval,
			SettleSeconds: defaultInboxSettleSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Archived:       true,
			Quarantined:    true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
