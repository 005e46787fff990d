package mediafile

import (
	"context"
	"errors"

	"github.com/mousephenotype/phenodcc-media/pkg/constant"
	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
)

var errDB = errors.New("connection refused")

type fakeDetailRepo struct {
	mutant        []*model.MediaFileDetail
	mutantErr     error
	baseline      map[string][]*model.MediaFileDetail
	baselineErr   map[string]error
	mutantQueries []model.DetailQuery
	baselineCalls []string
}

func (f *fakeDetailRepo) FindMutant(_ context.Context, q model.DetailQuery) ([]*model.MediaFileDetail, error) {
	f.mutantQueries = append(f.mutantQueries, q)
	return f.mutant, f.mutantErr
}

func (f *fakeDetailRepo) FindBaseline(_ context.Context, _ model.DetailQuery, mg string) ([]*model.MediaFileDetail, error) {
	f.baselineCalls = append(f.baselineCalls, mg)
	if err := f.baselineErr[mg]; err != nil {
		return nil, err
	}
	return f.baseline[mg], nil
}

type fakeProcedureMGRepo struct {
	groups []*model.ProcedureMetadataGroup
	err    error
}

func (f *fakeProcedureMGRepo) FindByContext(context.Context, int64, int64, int64, string) ([]*model.ProcedureMetadataGroup, error) {
	return f.groups, f.err
}

type fakeMGRepo struct {
	groups map[string]*model.MetadataGroupToValues
	errs   map[string]error
	calls  []string
}

func (f *fakeMGRepo) FindByMetadataGroup(_ context.Context, mg string) (*model.MetadataGroupToValues, error) {
	f.calls = append(f.calls, mg)
	if err := f.errs[mg]; err != nil {
		return nil, err
	}
	if g, ok := f.groups[mg]; ok {
		return g, nil
	}
	return nil, constant.ErrNotFound
}

type fakePreprocessedRepo struct {
	statuses map[string]int
	errs     map[string]error
}

func (f *fakePreprocessedRepo) FindStatusByImageName(_ context.Context, name string) (int, error) {
	if err := f.errs[name]; err != nil {
		return 0, err
	}
	if s, ok := f.statuses[name]; ok {
		return s, nil
	}
	return 0, constant.ErrNotFound
}

type fakeMediaFileRepo struct {
	files map[int64]*model.MediaFile
}

func (f *fakeMediaFileRepo) FindByID(_ context.Context, id int64) (*model.MediaFile, error) {
	if m, ok := f.files[id]; ok {
		return m, nil
	}
	return nil, constant.ErrNotFound
}

func (f *fakeMediaFileRepo) List(_ context.Context, page *model.PaginationInput) ([]*model.MediaFile, int, error) {
	var list []*model.MediaFile
	for id := int64(1); id <= int64(len(f.files)); id++ {
		list = append(list, f.files[id])
	}
	start := page.Offset()
	if start > len(list) {
		start = len(list)
	}
	end := start + page.GetPageSize()
	if end > len(list) {
		end = len(list)
	}
	return list[start:end], len(list), nil
}

func (f *fakeMediaFileRepo) Count(context.Context) (int, error) {
	return len(f.files), nil
}

func (f *fakeMediaFileRepo) Create(context.Context, *model.CreateMediaFileParams) (*model.MediaFile, error) {
	return nil, constant.ErrFeatureNotSupported
}

func (f *fakeMediaFileRepo) Update(context.Context, int64, *model.UpdateMediaFileParams) (*model.MediaFile, error) {
	return nil, constant.ErrFeatureNotSupported
}

func (f *fakeMediaFileRepo) Delete(context.Context, int64) error {
	return constant.ErrFeatureNotSupported
}

func detail(animal, mg string, id int64) *model.MediaFileDetail {
	return &model.MediaFileDetail{ID: &id, AnimalName: animal, MetadataGroup: mg}
}

func ptr[T any](v T) *T {
	return &v
}
