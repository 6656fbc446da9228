package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// Collection names used by the document store backend.
const (
	MongoItemsCollection       = "items"
	MongoUsersCollection       = "users"
	MongoTransitionsCollection = "item_transitions"
)

type mongoItem struct {
	ID           string     `bson:"_id"`
	Title        string     `bson:"title"`
	Description  string     `bson:"description"`
	Location     string     `bson:"location"`
	Category     string     `bson:"category"`
	DateReported time.Time  `bson:"dateReported"`
	Status       string     `bson:"status"`
	ReportedBy   string     `bson:"reportedBy"`
	ApprovedBy   *string    `bson:"approvedBy"`
	ClaimantID   *string    `bson:"claimantId"`
	ClaimDate    *time.Time `bson:"claimDate"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func toMongoItem(item *domain.Item) mongoItem {
	return mongoItem{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Location:     item.Location,
		Category:     string(item.Category),
		DateReported: item.DateReported,
		Status:       string(item.Status),
		ReportedBy:   item.ReportedBy,
		ApprovedBy:   item.ApprovedBy,
		ClaimantID:   item.ClaimantID,
		ClaimDate:    item.ClaimDate,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func (m mongoItem) toDomain() *domain.Item {
	return &domain.Item{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Location:     m.Location,
		Category:     domain.ItemCategory(m.Category),
		DateReported: m.DateReported,
		Status:       domain.ItemStatus(m.Status),
		ReportedBy:   m.ReportedBy,
		ApprovedBy:   m.ApprovedBy,
		ClaimantID:   m.ClaimantID,
		ClaimDate:    m.ClaimDate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type mongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository returns a document-store implementation.
func NewMongoItemRepository(db *mongo.Database) ItemRepository {
	return &mongoItemRepository{coll: db.Collection(MongoItemsCollection)}
}

func (r *mongoItemRepository) Create(ctx context.Context, item *domain.Item) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, toMongoItem(item))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var doc mongoItem
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoItemRepository) List(ctx context.Context, filter ItemFilter) ([]domain.Item, error) {
	query := bson.M{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		query["status"] = bson.M{"$in": statuses}
	}
	if filter.ReportedBy != nil {
		query["reportedBy"] = *filter.ReportedBy
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []domain.Item
	for cursor.Next(ctx) {
		var doc mongoItem
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, *doc.toDomain())
	}
	return result, cursor.Err()
}

func (r *mongoItemRepository) CompareAndSwapStatus(ctx context.Context, id string, expected domain.ItemStatus, change domain.StatusChange) (*domain.Item, error) {
	set := bson.M{"status": string(change.To), "updatedAt": time.Now().UTC()}
	if change.ApprovedBy != nil {
		set["approvedBy"] = *change.ApprovedBy
	}
	if change.ClaimantID != nil {
		set["claimantId"] = *change.ClaimantID
		set["claimDate"] = change.ClaimDate
	}

	var doc mongoItem
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(expected)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &StatusMismatchError{Expected: expected, Current: current}
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoItemRepository) Patch(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.DateReported != nil {
		set["dateReported"] = *patch.DateReported
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}

	var doc mongoItem
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoItemRepository) Delete(ctx context.Context, id string) (*domain.Item, error) {
	var doc mongoItem
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

type mongoUser struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository returns a document-store account repository. The
// unique email index is created by persistence.EnsureMongoIndexes.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(MongoUsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, mongoUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []domain.User
	for cursor.Next(ctx) {
		var doc mongoUser
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, *doc.toDomain())
	}
	return result, cursor.Err()
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc mongoUser
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

type mongoTransition struct {
	ID        string    `bson:"_id"`
	ItemID    string    `bson:"itemId"`
	From      *string   `bson:"from"`
	To        string    `bson:"to"`
	ActorID   string    `bson:"actorId"`
	Reason    string    `bson:"reason,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoItemTransitionRepository struct {
	coll *mongo.Collection
}

// NewMongoItemTransitionRepository returns a document-store transition log.
func NewMongoItemTransitionRepository(db *mongo.Database) ItemTransitionRepository {
	return &mongoItemTransitionRepository{coll: db.Collection(MongoTransitionsCollection)}
}

func (r *mongoItemTransitionRepository) Append(ctx context.Context, transition *domain.ItemTransition) error {
	if transition.CreatedAt.IsZero() {
		transition.CreatedAt = time.Now().UTC()
	}
	doc := mongoTransition{
		ID:        transition.ID,
		ItemID:    transition.ItemID,
		To:        string(transition.To),
		ActorID:   transition.ActorID,
		Reason:    transition.Reason,
		CreatedAt: transition.CreatedAt,
	}
	if transition.From != nil {
		from := string(*transition.From)
		doc.From = &from
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *mongoItemTransitionRepository) ListByItem(ctx context.Context, itemID string) ([]domain.ItemTransition, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"itemId": itemID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []domain.ItemTransition
	for cursor.Next(ctx) {
		var doc mongoTransition
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		transition := domain.ItemTransition{
			ID:        doc.ID,
			ItemID:    doc.ItemID,
			To:        domain.ItemStatus(doc.To),
			ActorID:   doc.ActorID,
			Reason:    doc.Reason,
			CreatedAt: doc.CreatedAt,
		}
		if doc.From != nil {
			from := domain.ItemStatus(*doc.From)
			transition.From = &from
		}
		result = append(result, transition)
	}
	return result, cursor.Err()
}
