package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/task-manager/internal/core/domain"
	"github.com/taskforge/task-manager/internal/core/ports"
)

const collectionTasks = "tasks"

// TaskRepository persists tasks in the tasks collection. Every id-based
// operation carries an owner filter so a foreign task behaves exactly like a
// missing one.
type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *taskDoc) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Completed:   d.Completed,
		Owner:       d.Owner.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(task.Owner)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskDoc{
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByIDAndOwner(ctx context.Context, id, owner string) (*domain.Task, error) {
	filter, err := taskOwnerFilter(id, owner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns the owner's tasks with optional completion filter,
// pagination, and sorting. Without a sort field the order is store-default.
func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, error) {
	owner, err := primitive.ObjectIDFromHex(filter.Owner)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	query := bson.M{"owner": owner}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find()
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.SortField != "" {
		dir := 1
		if !filter.SortAsc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: filter.SortField, Value: dir}})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*domain.Task{}
	for cursor.Next(ctx) {
		var doc taskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update persists description and completed for the owner's task and
// returns the updated document.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	filter, err := taskOwnerFilter(task.ID, task.Owner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"description": task.Description,
		"completed":   task.Completed,
		"updated_at":  task.UpdatedAt,
	}}

	var doc taskDoc
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteByIDAndOwner removes the owner's task and returns the deleted
// document.
func (r *TaskRepository) DeleteByIDAndOwner(ctx context.Context, id, owner string) (*domain.Task, error) {
	filter, err := taskOwnerFilter(id, owner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taskDoc
	if err := r.col.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return doc.toDomain(), nil
}

// DeleteByOwner removes every task owned by the given user.
func (r *TaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"owner": oid})
	if err != nil {
		return 0, fmt.Errorf("delete tasks by owner: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner index backing listings and the cascade.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	return err
}

// taskOwnerFilter builds the {_id, owner} filter. A malformed task id maps
// to ErrTaskNotFound so it is indistinguishable from a missing task.
func taskOwnerFilter(id, owner string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	ownerID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": oid, "owner": ownerID}, nil
}
