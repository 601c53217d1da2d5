package pipeline

import "github.com/askiada/go-reffy/pkg/pipeline/model"

type StageOption func(s *model.StageInfo)

// StageRequires declares files that must exist before the stage starts.
func StageRequires(paths ...string) StageOption {
	return func(s *model.StageInfo) {
		s.Requires = append(s.Requires, paths...)
	}
}

// StageProduces declares files the stage must have written once it returns.
func StageProduces(paths ...string) StageOption {
	return func(s *model.StageInfo) {
		s.Produces = append(s.Produces, paths...)
	}
}

// StageAfter links the stage to the stages it depends on. Names of stages that
// are not part of the pipeline are ignored.
func StageAfter(names ...string) StageOption {
	return func(s *model.StageInfo) {
		s.After = append(s.After, names...)
	}
}
