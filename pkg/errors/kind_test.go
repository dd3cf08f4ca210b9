package errors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	pkgerrors "github.com/joe/touch-ctime/pkg/errors"
)

func TestKind_Scope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     pkgerrors.Kind
		expected pkgerrors.Scope
	}{
		{pkgerrors.KindConfiguration, pkgerrors.ScopeConfiguration},
		{pkgerrors.KindInvalidTimestamp, pkgerrors.ScopeConfiguration},
		{pkgerrors.KindFileNotAccessible, pkgerrors.ScopeFile},
		{pkgerrors.KindInodeTouchFailure, pkgerrors.ScopeFile},
		{pkgerrors.KindClockReadFailure, pkgerrors.ScopeProcess},
		{pkgerrors.KindSignalMaskFailure, pkgerrors.ScopeProcess},
		{pkgerrors.KindClockWriteFailure, pkgerrors.ScopeProcess},
		{pkgerrors.KindClockRestoreFailure, pkgerrors.ScopeProcess},
	}

	for _, tt := range tests {
		if got := tt.kind.Scope(); got != tt.expected {
			t.Errorf("%v.Scope() = %v, want %v", tt.kind, got, tt.expected)
		}
	}
}

func TestTouchError_MessageAndUnwrap(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := pkgerrors.New(pkgerrors.KindFileNotAccessible, "/tmp/gone", fs.ErrNotExist)

	g.Expect(err.Error()).To(Equal("file not accessible: /tmp/gone: file does not exist"))
	g.Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
	g.Expect(pkgerrors.New(pkgerrors.KindClockReadFailure, "", nil).Error()).To(Equal("clock read failed"))
}

func TestScopeOf(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	touch := pkgerrors.New(pkgerrors.KindInodeTouchFailure, "/f", errors.New("eperm"))
	restore := pkgerrors.New(pkgerrors.KindClockRestoreFailure, "", errors.New("einval"))

	g.Expect(pkgerrors.ScopeOf(nil)).To(Equal(pkgerrors.ScopeNone))
	g.Expect(pkgerrors.ScopeOf(errors.New("plain"))).To(Equal(pkgerrors.ScopeFile))
	g.Expect(pkgerrors.ScopeOf(touch)).To(Equal(pkgerrors.ScopeFile))
	g.Expect(pkgerrors.ScopeOf(fmt.Errorf("wrapped: %w", restore))).To(Equal(pkgerrors.ScopeProcess))
	g.Expect(pkgerrors.ScopeOf(errors.Join(touch, restore))).To(Equal(pkgerrors.ScopeProcess))
}

func TestKindOfAndHasKind(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	touch := pkgerrors.New(pkgerrors.KindInodeTouchFailure, "/f", errors.New("eperm"))
	restore := pkgerrors.New(pkgerrors.KindClockRestoreFailure, "", errors.New("einval"))
	joined := errors.Join(touch, restore)

	g.Expect(pkgerrors.KindOf(joined)).To(Equal(pkgerrors.KindClockRestoreFailure))
	g.Expect(pkgerrors.KindOf(touch)).To(Equal(pkgerrors.KindInodeTouchFailure))
	g.Expect(pkgerrors.KindOf(errors.New("plain"))).To(Equal(pkgerrors.KindUnknown))
	g.Expect(pkgerrors.HasKind(joined, pkgerrors.KindInodeTouchFailure)).To(BeTrue())
	g.Expect(pkgerrors.HasKind(joined, pkgerrors.KindClockWriteFailure)).To(BeFalse())
}
