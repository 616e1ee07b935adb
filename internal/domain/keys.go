package domain

type CtxKey string

const KeyApplicantID CtxKey = "ApplicantID"
