package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestValues(t *testing.T) {
	ctx := WithOp(WithCourse(WithStudent(context.Background(), "A100"), "C1"), "courses.Register")
	if s, ok := Student(ctx); !ok || s != "A100" {
		t.Fatalf("student: %q %v", s, ok)
	}
	if c, ok := Course(ctx); !ok || c != "C1" {
		t.Fatalf("course: %q %v", c, ok)
	}
	if op, ok := Op(ctx); !ok || op != "courses.Register" {
		t.Fatalf("op: %q %v", op, ok)
	}
	if _, ok := Student(context.Background()); ok {
		t.Fatal("в пустом контексте студента нет")
	}
}

func TestWithDBTimeout_RespectsParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	ctx, c2 := WithDBTimeout(parent)
	defer c2()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("ожидали дедлайн")
	}
	if time.Until(dl) > 100*time.Millisecond {
		t.Fatalf("дедлайн не должен превышать родительский: %s", time.Until(dl))
	}

	ctx2, c3 := WithDBTimeout(context.Background())
	defer c3()
	dl2, _ := ctx2.Deadline()
	if time.Until(dl2) > DefaultDBTimeout {
		t.Fatal("дедлайн больше DefaultDBTimeout")
	}
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("при d <= 0 дедлайна быть не должно")
	}
	cancel()
	if ctx.Err() == nil {
		t.Fatal("cancel должен отменять контекст")
	}

	ctx, cancel = WithTimeout(context.Background(), time.Minute)
	defer cancel()
	dl, ok := ctx.Deadline()
	if !ok || time.Until(dl) > time.Minute {
		t.Fatalf("дедлайн: %v %v", dl, ok)
	}
}
