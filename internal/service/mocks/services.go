// Package mocks はハンドラテスト用のサービスモックです
package mocks

import (
	"context"

	"go_vocab_quiz/internal/model"

	"github.com/stretchr/testify/mock"
)

// --- VocabularyService ---

type MockVocabularyService struct {
	mock.Mock
}

func NewMockVocabularyService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVocabularyService {
	m := &MockVocabularyService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockVocabularyService) CreateVocabulary(ctx context.Context, ownerID uint, fields model.VocabularyFields) (*model.Vocabulary, error) {
	args := m.Called(ctx, ownerID, fields)
	v, _ := args.Get(0).(*model.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyService) GetVocabulary(ctx context.Context, ownerID, vocabID uint) (*model.Vocabulary, error) {
	args := m.Called(ctx, ownerID, vocabID)
	v, _ := args.Get(0).(*model.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyService) ListVocabulary(ctx context.Context, ownerID uint) ([]*model.Vocabulary, error) {
	args := m.Called(ctx, ownerID)
	v, _ := args.Get(0).([]*model.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyService) UpdateVocabulary(ctx context.Context, ownerID, vocabID uint, fields model.VocabularyFields) (*model.Vocabulary, error) {
	args := m.Called(ctx, ownerID, vocabID, fields)
	v, _ := args.Get(0).(*model.Vocabulary)
	return v, args.Error(1)
}

func (m *MockVocabularyService) DeleteVocabulary(ctx context.Context, ownerID, vocabID uint) error {
	args := m.Called(ctx, ownerID, vocabID)
	return args.Error(0)
}

// --- QuizService ---

type MockQuizService struct {
	mock.Mock
}

func NewMockQuizService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuizService {
	m := &MockQuizService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockQuizService) IssueWordPrompt(ctx context.Context, ownerID uint, direction model.Direction) (*model.BoundPrompt, error) {
	args := m.Called(ctx, ownerID, direction)
	p, _ := args.Get(0).(*model.BoundPrompt)
	return p, args.Error(1)
}

func (m *MockQuizService) IssueSentencePrompt(ctx context.Context, ownerID uint) (*model.BoundPrompt, error) {
	args := m.Called(ctx, ownerID)
	p, _ := args.Get(0).(*model.BoundPrompt)
	return p, args.Error(1)
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, ownerID uint, answer model.SubmitAnswer) (*model.AnswerResult, error) {
	args := m.Called(ctx, ownerID, answer)
	r, _ := args.Get(0).(*model.AnswerResult)
	return r, args.Error(1)
}

// --- ProgressService (ハンドラが使う参照系のみ) ---

type MockProgressReader struct {
	mock.Mock
}

func NewMockProgressReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProgressReader {
	m := &MockProgressReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProgressReader) ListProgress(ctx context.Context, ownerID uint) ([]*model.ProgressRecord, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).([]*model.ProgressRecord)
	return r, args.Error(1)
}

func (m *MockProgressReader) Summary(ctx context.Context, ownerID uint) (*model.ProgressSummary, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(*model.ProgressSummary)
	return s, args.Error(1)
}

// --- IdentityService ---

type MockIdentityService struct {
	mock.Mock
}

func NewMockIdentityService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIdentityService {
	m := &MockIdentityService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockIdentityService) Login(ctx context.Context, name string) (*model.Identity, bool, error) {
	args := m.Called(ctx, name)
	i, _ := args.Get(0).(*model.Identity)
	return i, args.Bool(1), args.Error(2)
}

func (m *MockIdentityService) IssueToken(ctx context.Context, identity *model.Identity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityService) GetIdentity(ctx context.Context, ownerID uint) (*model.Identity, error) {
	args := m.Called(ctx, ownerID)
	i, _ := args.Get(0).(*model.Identity)
	return i, args.Error(1)
}
