package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes tasks concurrently and waits for all of them.
// At most limit tasks run at once; limit <= 0 means no limit.
// The first failure cancels the context passed to the remaining tasks and is
// returned wrapped with the task name.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "worker-0", Func: createWorker0},
//	    {Name: "worker-1", Func: createWorker1},
//	}
//	if err := RunParallel(ctx, tasks, 10); err != nil {
//	    return err
//	}
func RunParallel(ctx context.Context, tasks []Task, limit int) error {
	if len(tasks) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, task := range tasks {
		g.Go(func() error {
			if err := task.Func(gctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			return nil
		})
	}

	return g.Wait()
}
