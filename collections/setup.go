package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"
)

// SessionsCollection holds one RAP workflow per browser session.
const SessionsCollection = "rap_sessions"

// jsonFieldMaxSize allows large estimates in the line_items field.
const jsonFieldMaxSize = 8 << 20

// Setup programmatically creates/ensures the rap_sessions collection exists.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, SessionsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.SelectField{
			Name:      "step",
			Required:  true,
			Values:    []string{"upload", "review", "pricing", "export"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "error", Required: false})
		c.Fields.Add(&core.JSONField{Name: "header", MaxSize: jsonFieldMaxSize})
		c.Fields.Add(&core.JSONField{Name: "line_items", MaxSize: jsonFieldMaxSize})
		c.Fields.Add(&core.JSONField{Name: "pricing", MaxSize: jsonFieldMaxSize})
		c.Fields.Add(&core.JSONField{Name: "contractor", MaxSize: jsonFieldMaxSize})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_rap_sessions_updated", false, "updated", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logrus.WithField("collection", name).Debug("collection already exists, skipping creation")
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		logrus.WithField("collection", name).Fatalf("failed to create collection: %v", err)
	}

	logrus.WithFields(logrus.Fields{"collection": name, "id": collection.Id}).Info("created collection")
	return collection
}
