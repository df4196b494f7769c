package workflow

import (
	"context"
	"testing"

	"distro-go/internal/database"
	"distro-go/internal/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Settling a rejected bill clears the current status doc and nothing else.
// History is the durable audit trail and must survive reassign/restock.
func TestClearSettledRemovesOnlyStatusDoc(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("status doc only", func(mt *mtest.T) {
		prev := database.DBInstance
		database.DBInstance = &database.DB{Mongo: mt.Client, MongoDB: mt.DB}
		defer func() { database.DBInstance = prev }()

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt.T, clearSettled(context.Background(), "42"))

		deletes := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName != "delete" {
				continue
			}
			deletes++
			target := evt.Command.Lookup("delete").StringValue()
			require.Equal(mt.T, models.ColDeliveryStatus, target)
			require.NotEqual(mt.T, models.ColHistory, target)
		}
		require.Equal(mt.T, 1, deletes)
	})
}
