package store

import (
	entschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableUserInfo   = "userinfo"
	tableSaveEvents = "save_events"
	tableLLMRequest = "llm_requests"
	tableSequence   = "global_sequence"
)

const (
	colID              = "id"
	colDisplayName     = "display_name"
	colSelectedOptions = "selected_options"
	colCreatedAt       = "created_at"
	colUpdatedAt       = "updated_at"

	colSequence      = "sequence"
	colAttemptID     = "attempt_id"
	colUserID        = "user_id"
	colQuestionIndex = "question_index"
	colAnswerCount   = "answer_count"
	colSuccess       = "success"
	colErrorMessage  = "error_message"

	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"

	colNextVal = "next_val"
)

var (
	userInfoColumns = []*entschema.Column{
		{Name: colID, Type: field.TypeString},
		{Name: colDisplayName, Type: field.TypeString, Default: ""},
		{Name: colSelectedOptions, Type: field.TypeJSON, Nullable: true},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	userInfoTable = &entschema.Table{
		Name:       tableUserInfo,
		Columns:    userInfoColumns,
		PrimaryKey: []*entschema.Column{userInfoColumns[0]},
	}

	saveEventColumns = []*entschema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colAttemptID, Type: field.TypeString},
		{Name: colUserID, Type: field.TypeString},
		{Name: colQuestionIndex, Type: field.TypeInt},
		{Name: colAnswerCount, Type: field.TypeInt},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	saveEventTable = &entschema.Table{
		Name:       tableSaveEvents,
		Columns:    saveEventColumns,
		PrimaryKey: []*entschema.Column{saveEventColumns[0]},
		Indexes: []*entschema.Index{
			{
				Name:    "saveevent_user_id_sequence",
				Columns: []*entschema.Column{saveEventColumns[3], saveEventColumns[1]},
			},
		},
	}

	llmRequestColumns = []*entschema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt},
		{Name: colOutputTokens, Type: field.TypeInt},
		{Name: colLatencyMs, Type: field.TypeInt64},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	llmRequestTable = &entschema.Table{
		Name:       tableLLMRequest,
		Columns:    llmRequestColumns,
		PrimaryKey: []*entschema.Column{llmRequestColumns[0]},
	}

	sequenceColumns = []*entschema.Column{
		{Name: colID, Type: field.TypeInt},
		{Name: colNextVal, Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &entschema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*entschema.Column{sequenceColumns[0]},
	}

	tables = []*entschema.Table{
		userInfoTable,
		saveEventTable,
		llmRequestTable,
		sequenceTable,
	}
)
