package mysql

import (
	"context"

	"github.com/Hillsrion/safespace-sub000/model"
	"github.com/google/uuid"
	"github.com/upper/db/v4"
)

type SpaceDB struct {
	sess db.Session
}

func getSpaceDB(sess db.Session) *SpaceDB {
	return &SpaceDB{sess}
}

func (sdb *SpaceDB) CreateSpace(ctx context.Context, name string) (string, error) {
	spaceId := uuid.NewString()
	_, err := sdb.sess.SQL().
		InsertInto("space").
		Columns("id", "name").
		Values(spaceId, name).
		ExecContext(ctx)
	if err != nil {
		return "", err
	}
	return spaceId, nil
}

// GetSpacesByIds gets spaces. nil ids gets all spaces
func (sdb *SpaceDB) GetSpacesByIds(ctx context.Context, ids []string) ([]*model.Space, error) {
	selector := sdb.sess.SQL().
		Select("*").
		From("space")
	if ids != nil {
		selector = selector.Where("id IN ?", ids)
	}
	var spaces []*model.Space
	return spaces, selector.
		IteratorContext(ctx).
		All(&spaces)
}

func (sdb *SpaceDB) GetSpacesForUser(ctx context.Context, userId string) ([]*model.Space, error) {
	var spaces []*model.Space
	return spaces, sdb.sess.SQL().
		Select("s.id", "s.name").
		From("space AS s").
		Join("membership AS m").On("s.id = m.space_id").
		Where("m.user_id = ?", userId).
		IteratorContext(ctx).
		All(&spaces)
}

func (sdb *SpaceDB) AddMember(ctx context.Context, membership *model.Membership) error {
	_, err := sdb.sess.WithContext(ctx).
		Collection("membership").
		Insert(membership)
	return err
}

func (sdb *SpaceDB) RemoveMember(ctx context.Context, userId, spaceId string) error {
	return sdb.sess.WithContext(ctx).
		Collection("membership").
		Find("user_id = ? AND space_id = ?", userId, spaceId).
		Delete()
}

func (sdb *SpaceDB) GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error) {
	var memberships []*model.Membership
	err := sdb.sess.WithContext(ctx).
		Collection("membership").
		Find("user_id = ?", userId).
		All(&memberships)
	return memberships, err
}
