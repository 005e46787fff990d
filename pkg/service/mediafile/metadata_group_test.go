package mediafile

import (
	"context"
	"testing"

	"github.com/mousephenotype/phenodcc-media/pkg/domain/model"
)

func TestIndexMetadataGroups(t *testing.T) {
	tests := []struct {
		name        string
		rows        []string
		groups      map[string]*model.MetadataGroupToValues
		errs        map[string]error
		wantGroups  []int64
		wantIndices []int64
		wantCalls   int
	}{
		{
			name:        "重复出现的元数据组只输出一次",
			rows:        []string{"A", "B", "A"},
			groups:      map[string]*model.MetadataGroupToValues{"A": {ID: 7, MetadataGroup: "A", Values: "x"}},
			wantGroups:  []int64{7},
			wantIndices: []int64{7, -1, 7},
			wantCalls:   2,
		},
		{
			name: "按首次出现顺序而不是 ID 排序",
			rows: []string{"B", "A", "B"},
			groups: map[string]*model.MetadataGroupToValues{
				"A": {ID: 1, MetadataGroup: "A"},
				"B": {ID: 9, MetadataGroup: "B"},
			},
			wantGroups:  []int64{9, 1},
			wantIndices: []int64{9, 1, 9},
			wantCalls:   2,
		},
		{
			name:        "无法解析的元数据组每次都重新查找",
			rows:        []string{"X", "X", "X"},
			wantGroups:  []int64{},
			wantIndices: []int64{-1, -1, -1},
			wantCalls:   3,
		},
		{
			name:        "查找失败与不存在同样处理",
			rows:        []string{"A", "E"},
			groups:      map[string]*model.MetadataGroupToValues{"A": {ID: 3, MetadataGroup: "A"}},
			errs:        map[string]error{"E": errDB},
			wantGroups:  []int64{3},
			wantIndices: []int64{3, -1},
			wantCalls:   2,
		},
		{
			name:        "空结果集",
			rows:        nil,
			wantGroups:  []int64{},
			wantIndices: []int64{},
			wantCalls:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMGRepo{groups: tt.groups, errs: tt.errs}
			details := make([]*model.MediaFileDetail, len(tt.rows))
			for i, mg := range tt.rows {
				details[i] = detail("a", mg, int64(i+1))
			}

			groups := IndexMetadataGroups(context.Background(), details, RepositoryResolver(repo))

			if groups == nil {
				t.Fatal("返回的元数据组不应为 nil")
			}
			if len(groups) != len(tt.wantGroups) {
				t.Fatalf("元数据组数量 = %d, want %d", len(groups), len(tt.wantGroups))
			}
			for i, g := range groups {
				if g.ID != tt.wantGroups[i] {
					t.Errorf("第 %d 个元数据组 ID = %d, want %d", i, g.ID, tt.wantGroups[i])
				}
			}
			for i, d := range details {
				if d.MetadataGroupIndex != tt.wantIndices[i] {
					t.Errorf("第 %d 行索引 = %d, want %d", i, d.MetadataGroupIndex, tt.wantIndices[i])
				}
			}
			if len(repo.calls) != tt.wantCalls {
				t.Errorf("查找次数 = %d, want %d (%v)", len(repo.calls), tt.wantCalls, repo.calls)
			}
		})
	}
}

func TestIndexMetadataGroupsInvariant(t *testing.T) {
	repo := &fakeMGRepo{groups: map[string]*model.MetadataGroupToValues{
		"A": {ID: 1, MetadataGroup: "A"},
		"B": {ID: 2, MetadataGroup: "B"},
		"C": {ID: 3, MetadataGroup: "C"},
	}}
	rows := []string{"A", "C", "B", "A", "Z", "C", "B", "B"}
	details := make([]*model.MediaFileDetail, len(rows))
	for i, mg := range rows {
		details[i] = detail("a", mg, int64(i))
	}

	groups := IndexMetadataGroups(context.Background(), details, RepositoryResolver(repo))

	ids := make(map[int64]bool)
	fingerprints := make(map[string]bool)
	for _, g := range groups {
		if fingerprints[g.MetadataGroup] {
			t.Errorf("元数据组 %s 重复出现", g.MetadataGroup)
		}
		fingerprints[g.MetadataGroup] = true
		ids[g.ID] = true
	}
	for i, d := range details {
		if d.MetadataGroupIndex != -1 && !ids[d.MetadataGroupIndex] {
			t.Errorf("第 %d 行索引 %d 不在元数据组列表中", i, d.MetadataGroupIndex)
		}
	}
}
