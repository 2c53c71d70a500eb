package workflow

import (
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/testsuite"

	"github.com/arcagent/arcagent/internal/activity"
	"github.com/arcagent/arcagent/internal/model"
)

const testPhone = "+14155550100"

func testStartOptions(id string) client.StartWorkflowOptions {
	return client.StartWorkflowOptions{ID: id, TaskQueue: "arcagent-tasks"}
}

// registerActivities registers activity structs with the test workflow
// environment so that parameter and return types can be deserialized. All
// activities are mocked via OnActivity.
func registerActivities(env *testsuite.TestWorkflowEnvironment) {
	env.RegisterActivity(&activity.CoreDB{})
	env.RegisterActivity(&activity.Notify{})
	env.RegisterActivity(&activity.Wallet{})
	env.RegisterActivity(&activity.Events{})
	env.RegisterActivity(&activity.Receipts{})
}

// matchNotice matches SendNoticeParams of the given kind.
func matchNotice(kind model.NoticeKind) interface{} {
	return mock.MatchedBy(func(p activity.SendNoticeParams) bool {
		return p.Kind == kind
	})
}

// matchErrorNotice matches an error notice of the given variant.
func matchErrorNotice(errorKind string) interface{} {
	return mock.MatchedBy(func(p activity.SendNoticeParams) bool {
		return p.Kind == model.NoticeError && p.Data.ErrorKind == errorKind
	})
}

// matchTxStatus matches UpdateTransactionStatusParams with the given status.
func matchTxStatus(status string) interface{} {
	return mock.MatchedBy(func(p activity.UpdateTransactionStatusParams) bool {
		return p.Status == status
	})
}
