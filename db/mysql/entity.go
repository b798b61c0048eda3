package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	appDb "github.com/Hillsrion/safespace-sub000/db"
	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/google/uuid"
	"github.com/upper/db/v4"
)

type EntityDB struct {
	sess db.Session
}

func getEntityDB(sess db.Session) *EntityDB {
	return &EntityDB{sess}
}

func (edb *EntityDB) CreateEntity(ctx context.Context, req *appDb.CreateEntity) (string, error) {
	entityId := uuid.NewString()
	err := edb.sess.TxContext(ctx, func(sess db.Session) error {
		_, err := sess.SQL().
			InsertInto("reported_entity").
			Columns("id", "name").
			Values(entityId, req.Name).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		if len(req.Handles) == 0 {
			return nil
		}
		batchInserter := sess.SQL().
			InsertInto("entity_handle").
			Columns("entity_id", "platform", "handle").
			Batch(len(req.Handles))
		for _, handle := range req.Handles {
			batchInserter.Values(entityId, handle.Platform, handle.Handle)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	if err != nil {
		return "", err
	}
	return entityId, nil
}

type flattenedEntity struct {
	Id                 string         `db:"id"`
	Name               string         `db:"name"`
	PlatformsJSONStr   sql.NullString `db:"handle_platforms"`
	HandleNamesJSONStr sql.NullString `db:"handle_names"`
}

var entityColumns = []interface{}{
	"e.id",
	"e.name",
	db.Raw("JSON_ARRAYAGG(eh.platform) as handle_platforms"),
	db.Raw("JSON_ARRAYAGG(eh.handle) as handle_names"),
}

func (edb *EntityDB) GetEntityById(ctx context.Context, id string) (*model.ReportedEntity, error) {
	var entity flattenedEntity
	if err := edb.sess.SQL().
		Select(entityColumns...).
		From("reported_entity AS e").
		LeftJoin("entity_handle AS eh").On("e.id = eh.entity_id").
		Where("e.id = ?", id).
		GroupBy("e.id").
		IteratorContext(ctx).
		One(&entity); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return buildEntityFromFlattened(&entity)
}

func (edb *EntityDB) SearchEntities(ctx context.Context, term string) ([]*model.ReportedEntity, error) {
	pattern := "%" + term + "%"
	var flattenedEntities []flattenedEntity
	if err := edb.sess.SQL().
		Select(entityColumns...).
		From("reported_entity AS e").
		LeftJoin("entity_handle AS eh").On("e.id = eh.entity_id").
		Where("e.name LIKE ? OR eh.handle LIKE ?", pattern, pattern).
		GroupBy("e.id").
		OrderBy("e.name").
		IteratorContext(ctx).
		All(&flattenedEntities); err != nil {
		return nil, err
	}
	entities := make([]*model.ReportedEntity, len(flattenedEntities))
	for i, flattened := range flattenedEntities {
		entity, err := buildEntityFromFlattened(&flattened)
		if err != nil {
			return nil, err
		}
		entities[i] = entity
	}
	return entities, nil
}

func buildEntityFromFlattened(entity *flattenedEntity) (*model.ReportedEntity, error) {
	handles := []*model.Handle{}
	if entity.PlatformsJSONStr.Valid {
		var platforms []*string
		if err := json.Unmarshal([]byte(entity.PlatformsJSONStr.String), &platforms); err != nil {
			return nil, err
		}
		var handleNames []*string
		if err := json.Unmarshal([]byte(entity.HandleNamesJSONStr.String), &handleNames); err != nil {
			return nil, err
		}
		for i, platform := range platforms {
			if platform == nil || handleNames[i] == nil {
				continue
			}
			handles = append(handles, &model.Handle{
				Platform: *platform,
				Handle:   *handleNames[i],
			})
		}
	}
	return &model.ReportedEntity{
		Id:      entity.Id,
		Name:    entity.Name,
		Handles: handles,
	}, nil
}
