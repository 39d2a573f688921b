package corochan

import "context"

// Of returns an AsyncSequence that yields xs in order and then stops.
// Useful for feeding combinators in tests without a real producer.
func Of[T any](xs ...T) *AsyncSequence[T] {
	return AsyncGenerate[T](func(_ *AsyncController, y *AsyncYield[T]) error {
		for _, x := range xs {
			y.Yield(x)
		}
		return nil
	})
}

// Map returns an AsyncSequence producing f applied to each element of s,
// pulling from s one element at a time.
func Map[T, U any](s *AsyncSequence[T], f func(T) U) *AsyncSequence[U] {
	return AsyncGenerate[U](func(ctrl *AsyncController, y *AsyncYield[U]) error {
		for {
			ok, err := Await(ctrl, s.HasNextFuture())
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			v, err := s.Next()
			if err != nil {
				return err
			}
			y.Yield(f(v))
		}
	})
}

// Filter returns an AsyncSequence producing only the elements of s for
// which p returns true.
func Filter[T any](s *AsyncSequence[T], p func(T) bool) *AsyncSequence[T] {
	return AsyncGenerate[T](func(ctrl *AsyncController, y *AsyncYield[T]) error {
		for {
			ok, err := Await(ctrl, s.HasNextFuture())
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			v, err := s.Next()
			if err != nil {
				return err
			}
			if p(v) {
				y.Yield(v)
			}
		}
	})
}

// Contains drains s looking for an element equal to x, stopping as soon
// as one is found.
func Contains[T comparable](ctx context.Context, s *AsyncSequence[T], x T) (bool, error) {
	for {
		ok, err := s.HasNext(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		v, err := s.Next()
		if err != nil {
			return false, err
		}
		if v == x {
			return true, nil
		}
	}
}

// ForEach drains s, invoking f with every element in order.
func ForEach[T any](ctx context.Context, s *AsyncSequence[T], f func(T)) error {
	for {
		ok, err := s.HasNext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		v, err := s.Next()
		if err != nil {
			return err
		}
		f(v)
	}
}

// ToList drains s into a slice, pre-sized by capacityHint (pass 0 if
// unknown).
func ToList[T any](ctx context.Context, s *AsyncSequence[T], capacityHint int) ([]T, error) {
	if capacityHint < 0 {
		capacityHint = 0
	}
	out := make([]T, 0, capacityHint)
	for {
		ok, err := s.HasNext(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		v, err := s.Next()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
