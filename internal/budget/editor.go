package budget

import (
	"github.com/neogenz/pulpe-sub001/internal/bulk"
	"github.com/neogenz/pulpe-sub001/internal/logging"
	"github.com/neogenz/pulpe-sub001/internal/model"
	"github.com/neogenz/pulpe-sub001/internal/reconcile"
)

// Collections and resources of the bulk-operations API.
const (
	BudgetsCollection    = "budgets"
	TemplatesCollection  = "budget-templates"
	TransactionsResource = "transactions"
)

type (
	LineEditor         = reconcile.Engine[LineForm, model.Line, LineCreate, LineUpdate]
	TemplateLineEditor = reconcile.Engine[TemplateLineForm, model.TemplateLine, TemplateLineCreate, TemplateLineUpdate]
	TransactionEditor  = reconcile.Engine[TransactionForm, model.Transaction, TransactionCreate, TransactionUpdate]

	LineSubmitter         = reconcile.Submitter[LineCreate, LineUpdate, model.Line]
	TemplateLineSubmitter = reconcile.Submitter[TemplateLineCreate, TemplateLineUpdate, model.TemplateLine]
	TransactionSubmitter  = reconcile.Submitter[TransactionCreate, TransactionUpdate, model.Transaction]
)

// NewLineEditor creates an editor for the lines of one budget.
func NewLineEditor(budgetID string, sub LineSubmitter, logger *logging.Logger) *LineEditor {
	return reconcile.New[LineForm, model.Line, LineCreate, LineUpdate](LineSchema{BudgetID: budgetID}, sub, logger)
}

// NewTemplateLineEditor creates an editor for the lines of one template.
func NewTemplateLineEditor(templateID string, sub TemplateLineSubmitter, logger *logging.Logger) *TemplateLineEditor {
	return reconcile.New[TemplateLineForm, model.TemplateLine, TemplateLineCreate, TemplateLineUpdate](
		TemplateLineSchema{TemplateID: templateID}, sub, logger)
}

// NewTransactionEditor creates an editor for the transactions of one budget.
func NewTransactionEditor(schema TransactionSchema, sub TransactionSubmitter, logger *logging.Logger) *TransactionEditor {
	return reconcile.New[TransactionForm, model.Transaction, TransactionCreate, TransactionUpdate](schema, sub, logger)
}

// NewLineEndpoint returns the bulk endpoint for a budget's lines.
func NewLineEndpoint(client *bulk.Client, budgetID string) *bulk.Endpoint[LineCreate, LineUpdate, model.Line] {
	return bulk.NewEndpoint[LineCreate, LineUpdate, model.Line](client, BudgetsCollection, budgetID, bulk.DefaultResource)
}

// NewTemplateLineEndpoint returns the bulk endpoint for a template's lines.
// With propagate set, the server pushes the changes to budgets built from
// the template.
func NewTemplateLineEndpoint(client *bulk.Client, templateID string, propagate bool) *bulk.Endpoint[TemplateLineCreate, TemplateLineUpdate, model.TemplateLine] {
	ep := bulk.NewEndpoint[TemplateLineCreate, TemplateLineUpdate, model.TemplateLine](client, TemplatesCollection, templateID, bulk.DefaultResource)
	ep.SetPropagation(propagate)
	return ep
}

// NewTransactionEndpoint returns the bulk endpoint for a budget's transactions.
func NewTransactionEndpoint(client *bulk.Client, budgetID string) *bulk.Endpoint[TransactionCreate, TransactionUpdate, model.Transaction] {
	return bulk.NewEndpoint[TransactionCreate, TransactionUpdate, model.Transaction](client, BudgetsCollection, budgetID, TransactionsResource)
}
