package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aircha/todo-web/internal/core/domain"
)

const todosCollection = "todos"

type TodoRepository struct {
	col *mongo.Collection
	ids sequence
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{col: db.Collection(todosCollection), ids: newSequence(db, todosCollection)}
}

type mongoTodo struct {
	ID          int64     `bson:"_id"`
	UserID      int64     `bson:"user_id"`
	Title       string    `bson:"title"`
	Description *string   `bson:"description"`
	IsDone      bool      `bson:"is_done"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (t mongoTodo) toDomain() domain.Todo {
	return domain.Todo{
		ID:          t.ID,
		OwnerID:     t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsDone:      t.IsDone,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// owned is the filter every scoped operation uses.
func owned(ownerID, id int64) bson.M {
	return bson.M{"_id": id, "user_id": ownerID}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoTodo{
		ID:          id,
		UserID:      todo.OwnerID,
		Title:       todo.Title,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	created := doc.toDomain()
	return &created, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTodo
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

func (r *TodoRepository) FindByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTodo
	if err := r.col.FindOne(ctx, owned(ownerID, id)).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	todo := doc.toDomain()
	return &todo, nil
}

func (r *TodoRepository) UpdateByOwner(ctx context.Context, todo *domain.Todo) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, owned(todo.OwnerID, todo.ID), bson.M{"$set": bson.M{
		"title":       todo.Title,
		"description": todo.Description,
		"is_done":     todo.IsDone,
		"updated_at":  todo.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// ToggleByOwner flips is_done server-side with an update pipeline, so two
// concurrent toggles cannot both read the same value.
func (r *TodoRepository) ToggleByOwner(ctx context.Context, ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "is_done", Value: bson.D{{Key: "$not", Value: bson.A{"$is_done"}}}},
		{Key: "updated_at", Value: "$$NOW"},
	}}}}

	res, err := r.col.UpdateOne(ctx, owned(ownerID, id), pipeline)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, owned(ownerID, id))
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
