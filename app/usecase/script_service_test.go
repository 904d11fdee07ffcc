package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsheetagent/internal/domain/entity"
)

func TestCreateScript(t *testing.T) {
	project := &fakeProject{createdID: "new-script"}
	svc := NewScriptService(&fakeFactory{project: project}, newUpdater(fakeTemplates{}), "", "UTC", discardLogger())

	id, err := svc.CreateScript(context.Background(), "tok", "sheet-1")
	require.NoError(t, err)
	assert.Equal(t, "new-script", id)
	assert.Equal(t, []string{DefaultProjectTitle + "|sheet-1"}, project.creates)
	require.Len(t, project.updates, 1)
	assert.Equal(t, "new-script", project.updates[0].scriptID)
}

func TestCreateScriptValidation(t *testing.T) {
	project := &fakeProject{}
	svc := NewScriptService(&fakeFactory{project: project}, newUpdater(fakeTemplates{}), "", "UTC", discardLogger())

	_, err := svc.CreateScript(context.Background(), "tok", "")
	requireKind(t, err, entity.KindBadRequest)

	_, err = svc.CreateScript(context.Background(), "", "sheet-1")
	requireKind(t, err, entity.KindUnauthorized)

	assert.Empty(t, project.creates)
}

func TestCreateScriptUpstreamError(t *testing.T) {
	project := &fakeProject{createErr: errors.New("Request had insufficient authentication scopes. ACCESS_TOKEN_SCOPE_INSUFFICIENT")}
	svc := NewScriptService(&fakeFactory{project: project}, newUpdater(fakeTemplates{}), "", "UTC", discardLogger())

	_, err := svc.CreateScript(context.Background(), "tok", "sheet-1")
	perr := requireKind(t, err, entity.KindUploadFailed)
	assert.Contains(t, perr.Message, "reinstall the add-on")
	assert.Empty(t, project.updates)
}
