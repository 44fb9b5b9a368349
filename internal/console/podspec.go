package console

// DefaultTargetPort is the create-stack target port when none is given.
const DefaultTargetPort = 80

// DefaultPodSpec is the pod document offered for create-stack when the
// operator supplies none. It is sent as opaque text.
const DefaultPodSpec = `apiVersion: v1
kind: Pod
metadata:
  name: challenge
spec:
  containers:
    - name: app
      image: nginx:stable
      ports:
        - containerPort: 80
          protocol: TCP
      resources:
        requests:
          cpu: "100m"
          memory: "128Mi"
        limits:
          cpu: "100m"
          memory: "128Mi"`
